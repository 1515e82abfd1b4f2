package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/etnz/krd"
	"github.com/etnz/krd/docs"
	"github.com/etnz/krd/renderer"
	"google.golang.org/genai"
)

func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and keep context of your previous questions.

			The user holds a portfolio of bonds and wants to understand its interest rate risk:
			which maturities it is exposed to, and how a move of rates at a given term changes its value.

			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.
			Always check figures with the Analyst before quoting them.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewEconomist creates an expert grounded on Google Search, for rates news and context.
func NewEconomist(model string) *Expert {
	return &Expert{
		Name: "Economist",
		Description: `This is an expert economist, aware of central banks policies,
		of the current level and shape of the yield curves, and of the latest news about rates.
		Ask the Economist whenever you need recent or grounding information about rates.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert economist, you can search and find anything related to
			interest rates, yield curves, central banks and government bonds. You leverage Google Search to
			ground your assertions.
			`}}},
		},
	}
}

// Tools computes figures on a book of bonds for the Analyst.
type Tools struct {
	Book    *krd.Book
	Options krd.ReportOptions
}

// NewAnalyst creates the expert that computes key rate durations of the book.
func NewAnalyst(model string, tools *Tools) *Expert {
	lib := tools.Functions()
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. It reads the user's bonds file and computes present values
		and key rate durations of each bond and of the portfolio.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a fixed income analyst in charge of the user's bonds.
			Use the Tools to compute present values and key rate durations, never guess a figure.
			Read the documentation topics when you need the exact definition of a figure.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Functions returns the functions of the Analyst.
func (t *Tools) Functions() []Function {
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Report",
				Description: "Report computes the key rate durations of every bond and of the portfolio, as a markdown document.",
				Response:    &genai.Schema{Type: genai.TypeString, Description: "A markdown report with term buckets, portfolio and bonds key rate durations."},
			},
			Func: func(ctx context.Context, _ map[string]any) (string, error) {
				r, err := krd.NewReport(ctx, t.Book, t.Options)
				if err != nil {
					return "", err
				}
				return renderer.RenderReport(r, renderer.ReportRenderOptions{}), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name: "Query",
				Description: `Query evaluates a JSONPath expression on the JSON report of the book.
				The report has fields: asOf, compounding, currency, buckets[] (date, term), bonds[] (name, weight, presentValue, krd[], duration), portfolio[], duration.`,
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"path": {Type: genai.TypeString, Description: "A JSONPath expression, e.g. $.bonds[*].duration"},
					},
					Required: []string{"path"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "The JSON value selected by the expression."},
			},
			Func: func(ctx context.Context, args map[string]any) (string, error) {
				path, err := stringArg(args, "path")
				if err != nil {
					return "", err
				}
				r, err := krd.NewReport(ctx, t.Book, t.Options)
				if err != nil {
					return "", err
				}
				v, err := renderer.Query(r, path)
				if err != nil {
					return "", err
				}
				b, err := json.Marshal(v)
				return string(b), err
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Annualize",
				Description: "Annualize converts an effective periodic yield into the annualized rate used to discount cash flows.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"rate": {Type: genai.TypeString, Description: "The effective periodic yield, as a decimal number, e.g. 0.03"},
					},
					Required: []string{"rate"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "The annualized rate."},
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				s, err := stringArg(args, "rate")
				if err != nil {
					return "", err
				}
				rate, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return "", fmt.Errorf("argument 'rate' must be a number, got %q", s)
				}
				y, err := krd.Annualize(rate, t.Options.Convention.PeriodsPerYear, t.Options.Mode)
				if err != nil {
					return "", err
				}
				return strconv.FormatFloat(y, 'g', -1, 64), nil
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Topic",
				Description: "Topic returns a documentation topic of krd: readme, bonds, compounding or krd.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"topic": {Type: genai.TypeString, Description: "The topic name."},
					},
					Required: []string{"topic"},
				},
				Response: &genai.Schema{Type: genai.TypeString, Description: "The topic, in markdown."},
			},
			Func: func(_ context.Context, args map[string]any) (string, error) {
				topic, err := stringArg(args, "topic")
				if err != nil {
					return "", err
				}
				return docs.GetTopic(topic)
			},
		},
	}
}
