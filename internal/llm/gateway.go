package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"cafekiosk/internal/metrics"
	"cafekiosk/internal/order"
)

// Gateway is the single entry point for every language-model capability the
// kiosk uses. Cloud failures propagate to callers, who own the fallback
// decision; the one exception is ExtractItems, which always degrades to the
// deterministic extractor rather than failing.
type Gateway struct {
	cloud CloudProvider
	local LocalProvider // nil when the local backend is disabled

	defaultModel   string
	requestTimeout time.Duration
	log            zerolog.Logger
}

// GatewayOptions configures a Gateway.
type GatewayOptions struct {
	Cloud          CloudProvider
	Local          LocalProvider
	DefaultModel   string
	RequestTimeout time.Duration
	Logger         zerolog.Logger
}

// NewGateway wires a gateway from its backends.
func NewGateway(opts GatewayOptions) *Gateway {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gateway{
		cloud:          opts.Cloud,
		local:          opts.Local,
		defaultModel:   opts.DefaultModel,
		requestTimeout: timeout,
		log:            opts.Logger.With().Str("component", "llm_gateway").Logger(),
	}
}

// LocalModelName returns the configured local model name, or "" when the
// local backend is disabled.
func (g *Gateway) LocalModelName() string {
	if g.local == nil {
		return ""
	}
	return g.local.Model()
}

// CheckLocalAvailability probes the local runtime. The result is not cached
// here; the serving router owns the staleness policy.
func (g *Gateway) CheckLocalAvailability(ctx context.Context) bool {
	if g.local == nil {
		return false
	}
	up := g.local.Ping(ctx)
	g.log.Debug().Bool("available", up).Msg("local model availability probed")
	return up
}

// callCloud runs one cloud completion under the configured request timeout.
func (g *Gateway) callCloud(ctx context.Context, messages []Message, opts CompleteOptions) (string, error) {
	if opts.Model == "" {
		opts.Model = g.defaultModel
	}
	ctx, cancel := context.WithTimeout(ctx, g.requestTimeout)
	defer cancel()

	text, err := g.cloud.Complete(ctx, messages, opts)
	if err != nil {
		metrics.LLMCalls.WithLabelValues(string(BackendCloud), "error").Inc()
		return "", err
	}
	metrics.LLMCalls.WithLabelValues(string(BackendCloud), "ok").Inc()
	return text, nil
}

// ClassifyCategory asks the cloud model which menu category the order text
// belongs to and returns its short label answer verbatim.
func (g *Gateway) ClassifyCategory(ctx context.Context, orderText string) (string, error) {
	prompt := fmt.Sprintf(`다음 주문 내용을 분석하여 가장 적절한 메뉴 카테고리를 선택하라.

주문 내용: %s

카테고리: 음료, 디저트, 식사

카테고리 하나만 답변하라. 다른 설명은 포함하지 마라.`, orderText)

	label, err := g.callCloud(ctx, []Message{{Role: "user", Content: prompt}}, CompleteOptions{MaxTokens: 10})
	if err != nil {
		return "", fmt.Errorf("classify category: %w", err)
	}
	g.log.Info().Str("category", label).Msg("category classified")
	return strings.TrimSpace(label), nil
}

// AnalyzeComplexity grades a query's reasoning difficulty. Malformed model
// output degrades to medium; transport errors propagate.
func (g *Gateway) AnalyzeComplexity(ctx context.Context, query string) (Complexity, error) {
	prompt := fmt.Sprintf(`다음 질문의 복잡도를 분석하라.

질문: %s

복잡도 기준:
- low: 단순 사실 확인, 간단한 계산, 일반 상식, 간단한 주문
- medium: 설명이 필요한 개념, 비교 분석, 중간 수준의 추론, 옵션이 있는 주문
- high: 복잡한 추론, 창의적 작성, 다단계 분석, 복잡한 커스터마이징

복잡도만 답변하라 (low, medium, high 중 하나).`, query)

	answer, err := g.callCloud(ctx, []Message{{Role: "user", Content: prompt}}, CompleteOptions{MaxTokens: 10})
	if err != nil {
		return "", fmt.Errorf("analyze complexity: %w", err)
	}

	switch c := Complexity(strings.ToLower(strings.TrimSpace(answer))); c {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return c, nil
	default:
		g.log.Warn().Str("raw", answer).Msg("unrecognized complexity answer, defaulting to medium")
		return ComplexityMedium, nil
	}
}

// AnalyzeSensitivity grades a query's privacy risk with a model prompt. This
// is the precise, on-demand alternative to keyword-based sensitivity scoring.
// Malformed output degrades to medium; transport errors propagate.
func (g *Gateway) AnalyzeSensitivity(ctx context.Context, query string) (Sensitivity, error) {
	prompt := fmt.Sprintf(`다음 질문의 민감도를 분석하라.

질문: %s

민감도 기준:
- low: 일반적인 정보, 공개된 지식, 간단한 주문
- medium: 개인적인 의견, 약간 민감한 주제
- high: 개인정보, 기밀 정보, 매우 민감한 주제

민감도만 답변하라 (low, medium, high 중 하나).`, query)

	answer, err := g.callCloud(ctx, []Message{{Role: "user", Content: prompt}}, CompleteOptions{MaxTokens: 10})
	if err != nil {
		return "", fmt.Errorf("analyze sensitivity: %w", err)
	}

	switch s := Sensitivity(strings.ToLower(strings.TrimSpace(answer))); s {
	case SensitivityLow, SensitivityMedium, SensitivityHigh:
		return s, nil
	default:
		return SensitivityMedium, nil
	}
}

// extractionEnvelope is the structured-output contract for item extraction.
type extractionEnvelope struct {
	Items []extractedItem `json:"items"`
}

type extractedItem struct {
	Menu        string   `json:"menu"`
	Quantity    int      `json:"quantity"`
	Size        *string  `json:"size"`
	Temperature *string  `json:"temperature"`
	Options     []string `json:"options"`
}

// ExtractItems extracts structured line items from order text, restricted to
// the supplied menu allow-list. It never fails: transport errors, empty
// completions, and malformed JSON all degrade to the deterministic fallback
// extractor, which may itself return an empty list.
func (g *Gateway) ExtractItems(ctx context.Context, orderText, category string, availableMenus []string) []order.ItemRequest {
	prompt := fmt.Sprintf(`다음 주문에서 메뉴와 수량을 추출하세요.

주문 내용: %s
카테고리: %s
사용 가능한 메뉴: %s

규칙:
1. menu는 반드시 사용 가능한 메뉴 중에서 선택
2. 수량이 명시되지 않으면 1로 설정
3. 사이즈는 Tall, Grande, Venti 중 하나 (없으면 null)
4. 온도는 Hot, Ice 중 하나 (없으면 null)
5. 유사한 메뉴 이름 매칭 (예: "아이스 아메리카노" → "아메리카노")

JSON만 출력하세요:
{
    "items": [
        {
            "menu": "메뉴명",
            "quantity": 1,
            "size": "Tall",
            "temperature": "Ice",
            "options": []
        }
    ]
}`, orderText, category, strings.Join(availableMenus, ", "))

	response, err := g.callCloud(ctx, []Message{{Role: "user", Content: prompt}}, CompleteOptions{MaxTokens: 500})
	if err != nil {
		g.log.Warn().Err(err).Msg("extraction call failed, using fallback")
		return g.fallback(orderText, availableMenus)
	}

	cleaned := stripCodeFence(response)
	if cleaned == "" {
		g.log.Warn().Msg("empty extraction response, using fallback")
		return g.fallback(orderText, availableMenus)
	}

	var envelope extractionEnvelope
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		g.log.Warn().Err(err).Str("response", truncate(response, 200)).
			Msg("malformed extraction JSON, using fallback")
		return g.fallback(orderText, availableMenus)
	}

	items := make([]order.ItemRequest, 0, len(envelope.Items))
	for _, e := range envelope.Items {
		req := order.ItemRequest{
			Menu:     e.Menu,
			Quantity: e.Quantity,
			Options:  e.Options,
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}
		if req.Options == nil {
			req.Options = []string{}
		}
		if e.Size != nil {
			req.Size = *e.Size
		}
		if e.Temperature != nil {
			req.Temperature = *e.Temperature
		}
		items = append(items, req)
	}

	g.log.Info().Int("items", len(items)).Msg("order items extracted")
	return items
}

func (g *Gateway) fallback(orderText string, availableMenus []string) []order.ItemRequest {
	metrics.ExtractionFallbacks.Inc()
	items := FallbackExtract(orderText, availableMenus)
	g.log.Info().Int("items", len(items)).Msg("fallback extraction")
	return items
}

// GenerateRecommendation asks the cloud model for complementary menu
// suggestions for the current order.
func (g *Gateway) GenerateRecommendation(ctx context.Context, items []order.ItemRequest) (string, error) {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("%s %d개", it.Menu, it.Quantity)
	}

	prompt := fmt.Sprintf(`고객이 다음 항목을 주문했습니다:
%s

이 주문에 어울리는 추가 메뉴를 1-2개 추천해주세요.
추천 이유와 함께 간단하고 친절하게 설명하세요.
한국어로 답변하세요.`, strings.Join(lines, ", "))

	text, err := g.callCloud(ctx, []Message{{Role: "user", Content: prompt}}, CompleteOptions{
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("generate recommendation: %w", err)
	}
	return text, nil
}

// Complete serves a generic chat completion from the requested backend. For
// the local backend the message list is folded into a single prompt.
func (g *Gateway) Complete(ctx context.Context, messages []Message, backend Backend, model string) (string, error) {
	if backend == BackendLocal {
		if g.local == nil {
			return "", fmt.Errorf("local backend is not configured")
		}
		parts := make([]string, len(messages))
		for i, m := range messages {
			parts[i] = m.Role + ": " + m.Content
		}
		ctx, cancel := context.WithTimeout(ctx, g.requestTimeout)
		defer cancel()

		text, err := g.local.Generate(ctx, strings.Join(parts, "\n"))
		if err != nil {
			metrics.LLMCalls.WithLabelValues(string(BackendLocal), "error").Inc()
			return "", err
		}
		metrics.LLMCalls.WithLabelValues(string(BackendLocal), "ok").Inc()
		return text, nil
	}
	return g.callCloud(ctx, messages, CompleteOptions{Model: model, MaxTokens: 1000, Temperature: 0.7})
}

// stripCodeFence removes a markdown ```json fence around a model response.
func stripCodeFence(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
