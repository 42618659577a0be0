// Package translate converts extracted product text to the shop
// language. The backend is a run-wide decision made once at startup
// from whichever credentials are configured: DeepL first, then an
// OpenAI model, then identity passthrough. Translation is a quality
// enhancement, so a failing backend degrades to the original text for
// that call instead of failing the batch.
package translate

import (
	"context"
	"os"

	"gomag-importer/internal/observability"
	"gomag-importer/internal/types"
)

// Translator converts one piece of text to the target language.
type Translator interface {
	Name() string
	Translate(ctx context.Context, text string) (string, error)
}

// NewFromEnv selects the backend from DEEPL_API_KEY / OPENAI_API_KEY
// and wraps it so per-call failures fall back to the input text.
func NewFromEnv(cfg *types.Config, logger types.Logger) Translator {
	if key := os.Getenv("DEEPL_API_KEY"); key != "" {
		logger.Info("Translation backend: DeepL")
		return &safeTranslator{backend: NewDeepL(key, cfg.TargetLang), logger: logger}
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		logger.Info("Translation backend: OpenAI")
		return &safeTranslator{backend: NewOpenAI(key, cfg.TargetLang), logger: logger}
	}
	logger.Info("Translation backend: none (passthrough)")
	return Identity{}
}

// Identity returns every input unchanged. It is the backend used when
// no translation credentials are configured.
type Identity struct{}

func (Identity) Name() string { return "identity" }

func (Identity) Translate(_ context.Context, text string) (string, error) {
	return text, nil
}

// safeTranslator degrades backend failures to passthrough with a
// warning, so a quota or network problem never fails a record.
type safeTranslator struct {
	backend Translator
	logger  types.Logger
}

func (s *safeTranslator) Name() string { return s.backend.Name() }

func (s *safeTranslator) Translate(ctx context.Context, text string) (string, error) {
	if text == "" {
		return text, nil
	}
	out, err := s.backend.Translate(ctx, text)
	if err != nil {
		observability.TranslationFailures.Inc()
		s.logger.Warnf("Translation failed via %s, keeping original text: %v", s.backend.Name(), err)
		return text, nil
	}
	return out, nil
}

// Product returns a copy of the extracted product with title,
// description, spec keys/values and variant values translated. The
// input is not modified.
func Product(ctx context.Context, tr Translator, p types.ExtractedProduct) types.ExtractedProduct {
	out := p

	out.Title, _ = tr.Translate(ctx, p.Title)
	out.Description, _ = tr.Translate(ctx, p.Description)

	if len(p.Specs) > 0 {
		out.Specs = make(map[string]string, len(p.Specs))
		for k, v := range p.Specs {
			kk, _ := tr.Translate(ctx, k)
			vv, _ := tr.Translate(ctx, v)
			out.Specs[kk] = vv
		}
	}

	if len(p.Variants) > 0 {
		out.Variants = make([]types.Variant, len(p.Variants))
		for i, v := range p.Variants {
			// Variant names are form-field identifiers, only the
			// shopper-visible value is translated.
			vv, _ := tr.Translate(ctx, v.Value)
			out.Variants[i] = types.Variant{Name: v.Name, Value: vv}
		}
	}

	return out
}
