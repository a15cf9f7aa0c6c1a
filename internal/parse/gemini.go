package parse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/san-kum/kinematica/internal/problem"
	"google.golang.org/api/option"
)

const maxAttempts = 3

const systemPrompt = `You analyze introductory mechanics questions and return a single JSON object.

Recognize exactly these problem types:
- PROJECTILE_MOTION: something thrown or launched (parameters initial_velocity m/s, angle degrees, height m)
- FREE_FALL: something dropped or falling under gravity (parameters height m or time s, optional initial_velocity m/s)
- PENDULUM: a swinging mass on a rod or string (parameters length m, initial_angle degrees)
- COLLISION: two bodies colliding head-on elastically (parameters mass_a, velocity_a, mass_b, velocity_b)

quantity_asked is one of: range, max_height, time_flight, final_velocity, distance, time_fall,
period, max_velocity, final_velocities.

Convert every value to SI units, keep angles in degrees. Output only JSON of the form:
{"problem_type": "TYPE", "parameters": {"name": number}, "quantity_asked": "quantity",
 "objects": [{"name": "Ball A", "mass": 1, "velocity": 5}]}`

// Gemini parses text with a Gemini model.
type Gemini struct {
	APIKey string
	Model  string
}

func NewGemini(apiKey, model string) *Gemini {
	return &Gemini{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
	}
}

func (g *Gemini) Parse(ctx context.Context, text string) (problem.ParsedProblem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return problem.ParsedProblem{}, fmt.Errorf("%w: empty text", ErrParse)
	}
	if g.APIKey == "" {
		return problem.ParsedProblem{}, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return problem.ParsedProblem{}, err
	}
	defer cl.Close()

	m := cl.GenerativeModel(g.Model)
	if m == nil {
		return problem.ParsedProblem{}, fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(0),
		ResponseMIMEType: "application/json",
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := m.GenerateContent(ctx, genai.Text("Analyze this physics problem: "+text))
		if err != nil {
			lastErr = err
			select {
			case <-ctx.Done():
				return problem.ParsedProblem{}, ctx.Err()
			case <-time.After(time.Duration(attempt) * 300 * time.Millisecond):
			}
			continue
		}
		txt := firstText(resp)
		if txt == "" {
			return problem.ParsedProblem{}, fmt.Errorf("%w: empty response", ErrParse)
		}
		return Decode(txt, text)
	}
	return problem.ParsedProblem{}, lastErr
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}

func ptrFloat32(v float32) *float32 { return &v }
