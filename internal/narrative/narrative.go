// Package narrative turns engine output into a short prose summary, either
// through a language model or a deterministic template.
package narrative

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"

	_ "embed"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/spigell/careerfit/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

type Source string

const (
	SourceModel    Source = "model"
	SourceTemplate Source = "template"
)

const (
	defaultMaxLogLength = 200
	DefaultTimeout      = 20 * time.Second
	DefaultCacheSize    = 128
	maxHighlights       = 5
)

// Narrative is the prose attached to a report. Error holds the reason the
// model output was not used, when there is one.
type Narrative struct {
	Text       string   `json:"text"`
	Highlights []string `json:"highlights,omitempty"`
	Source     Source   `json:"source"`
	Error      string   `json:"error,omitempty"`
}

//go:embed prompt.md
var promptTemplate string

//go:embed fallback.tmpl
var fallbackSource string

var fallbackTemplate = template.Must(template.New("fallback").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(fallbackSource))

// Writer produces narratives. A nil generator always uses the template.
type Writer struct {
	generator contentGenerator
	timeout   time.Duration
	cache     *lru.Cache[string, Narrative]
	logger    *zap.Logger
	maxLogLen int
}

func NewWriter(generator contentGenerator, logger *zap.Logger, timeout time.Duration, cacheSize, maxLogLength int) (*Writer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	cache, err := lru.New[string, Narrative](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create narrative cache: %w", err)
	}

	return &Writer{
		generator: generator,
		timeout:   timeout,
		cache:     cache,
		logger:    logger,
		maxLogLen: maxLogLength,
	}, nil
}

// Write never fails: any model problem degrades to the template narrative.
func (w *Writer) Write(ctx context.Context, in Input) Narrative {
	if w == nil || w.generator == nil {
		return Fallback(in, "")
	}

	prompt := buildPrompt(Evidence(in))
	key := cacheKey(prompt)
	if cached, ok := w.cache.Get(key); ok {
		w.logger.Debug("narrative cache hit", zap.String("session", in.Session))
		return cached
	}

	w.logger.Debug("narrative generate content request",
		zap.String("session", in.Session),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, w.maxLogLen)),
	)

	callCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	raw, err := w.generator.GenerateContent(callCtx, prompt)
	if err != nil {
		w.logger.Warn("narrative generation failed, using template",
			zap.String("session", in.Session),
			zap.Error(err),
		)
		return Fallback(in, err.Error())
	}

	w.logger.Debug("narrative generate content response",
		zap.String("session", in.Session),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, w.maxLogLen)),
	)

	n, err := parseResponse(raw)
	if err != nil {
		w.logger.Warn("narrative response unusable, using template",
			zap.String("session", in.Session),
			zap.Error(err),
		)
		return Fallback(in, err.Error())
	}

	w.cache.Add(key, n)
	return n
}

// Fallback renders the template narrative. reason is recorded as the error.
func Fallback(in Input, reason string) Narrative {
	var buf bytes.Buffer
	if err := fallbackTemplate.Execute(&buf, in); err != nil {
		return Narrative{Source: SourceTemplate, Error: err.Error()}
	}

	highlights := make([]string, 0, maxHighlights)
	for _, m := range in.Motivators {
		if len(highlights) == maxHighlights {
			break
		}
		highlights = append(highlights, fmt.Sprintf("%s (%d)", m.Label, m.Score))
	}

	return Narrative{
		Text:       strings.Join(strings.Fields(buf.String()), " "),
		Highlights: highlights,
		Source:     SourceTemplate,
		Error:      reason,
	}
}

func buildPrompt(evidence string) string {
	tmpl := promptTemplate
	if strings.TrimSpace(tmpl) == "" {
		tmpl = "Evidence:\n{{EVIDENCE}}\n\nJSON Response:"
	}
	return strings.ReplaceAll(tmpl, "{{EVIDENCE}}", evidence)
}

func cacheKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

func parseResponse(raw string) (Narrative, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return Narrative{}, fmt.Errorf("parse narrative response: %w", err)
	}

	summary := coerceString(data["summary"])
	if summary == "" {
		return Narrative{}, fmt.Errorf("narrative response has no summary")
	}

	var highlights []string
	if list, ok := data["highlights"].([]any); ok {
		for _, item := range list {
			if s := coerceString(item); s != "" && len(highlights) < maxHighlights {
				highlights = append(highlights, s)
			}
		}
	}

	return Narrative{Text: summary, Highlights: highlights, Source: SourceModel}, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
