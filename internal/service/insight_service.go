package service

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/domain"
	"github.com/pulseboard/pulseboard/internal/store"
)

// Emissions is the set of pipeline entries produced by one refresh. Each
// widget's own emissions are appended in order; ordering across widgets is
// unspecified.
type Emissions struct {
	Alerts        []domain.Alert
	Insights      []domain.Insight
	Notifications []domain.Notification
}

// InsightService derives alerts, insights and notifications from freshly
// computed widget payloads. When an OpenAI key is configured it also
// rewrites insight descriptions asynchronously; the rule-based text is
// always produced first so the pipeline never waits on a model.
type InsightService struct {
	insights *store.Pipeline[domain.Insight]
	client   *openai.Client
	model    string
	logger   *zap.Logger
}

// NewInsightService creates the insight generator. The OpenAI client is
// nil unless an API key is configured.
func NewInsightService(cfg *config.Config, insights *store.Pipeline[domain.Insight], logger *zap.Logger) *InsightService {
	s := &InsightService{
		insights: insights,
		model:    cfg.Insights.OpenAIModel,
		logger:   logger,
	}
	if cfg.Insights.OpenAIAPIKey != "" {
		s.client = openai.NewClient(cfg.Insights.OpenAIAPIKey)
	}
	return s
}

// EvaluateRefresh inspects the transition from old to new payload and
// returns any entries to enqueue. Pure with respect to store state.
func (s *InsightService) EvaluateRefresh(w domain.Widget, old, fresh domain.WidgetPayload) Emissions {
	var out Emissions

	switch payload := fresh.(type) {
	case domain.SalesOverviewPayload:
		if payload.Growth <= -5 {
			out.Alerts = append(out.Alerts, domain.Alert{
				Title:         "Sales Decline",
				Message:       fmt.Sprintf("Monthly sales dropped %.1f%% against the previous month.", -payload.Growth),
				Type:          domain.AlertWarning,
				Priority:      domain.PriorityHigh,
				RelatedWidget: w.ID,
				Actions: []domain.EventAction{
					{Label: "View Details", Action: "view_sales_details", Variant: "primary"},
				},
			})
		}
		if payload.Growth >= 10 {
			out.Insights = append(out.Insights, domain.Insight{
				Title:        "Sales Trend",
				Description:  fmt.Sprintf("Sales are up %.1f%% compared to the previous month.", payload.Growth),
				Type:         domain.InsightTrend,
				Confidence:   0.9,
				Impact:       domain.ImpactHigh,
				Category:     "Sales",
				IsActionable: true,
				Actions: []domain.EventAction{
					{Label: "View Details", Action: "view_sales_details"},
					{Label: "Share Insight", Action: "share_insight"},
				},
			})
		}

	case domain.KPICardPayload:
		if payload.Change <= -10 {
			out.Alerts = append(out.Alerts, domain.Alert{
				Title:         "KPI Drop",
				Message:       fmt.Sprintf("%s fell %.1f%% since the last refresh.", payload.Label, -payload.Change),
				Type:          domain.AlertError,
				Priority:      domain.PriorityCritical,
				RelatedWidget: w.ID,
			})
		}

	case domain.FunnelChartPayload:
		if prev, ok := old.(domain.FunnelChartPayload); ok && prev.ConversionRate > 0 {
			if payload.ConversionRate < prev.ConversionRate*0.8 {
				out.Insights = append(out.Insights, domain.Insight{
					Title:       "Conversion Anomaly",
					Description: fmt.Sprintf("Funnel conversion dropped from %.1f%% to %.1f%%.", prev.ConversionRate, payload.ConversionRate),
					Type:        domain.InsightAnomaly,
					Confidence:  0.8,
					Impact:      domain.ImpactMedium,
					Category:    "Sales",
				})
			}
		}

	case domain.TeamPerformancePayload:
		for _, team := range payload.Teams {
			if team.Target > 0 && team.Performance < team.Target*0.85 {
				out.Notifications = append(out.Notifications, domain.Notification{
					Title:   "Team Behind Target",
					Message: fmt.Sprintf("%s is at %.0f%% of its %.0f target.", team.Name, team.Performance, team.Target),
					Type:    domain.AlertWarning,
				})
			}
		}
	}

	return out
}

// Enrich asynchronously rewrites an insight's description via the
// configured model, then patches the pipeline entry in place. A nil
// client, model failure or dismissed entry all leave the rule-based text.
func (s *InsightService) Enrich(insight domain.Insight) {
	if s.client == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		narrative, err := s.narrate(ctx, insight)
		if err != nil {
			s.logger.Warn("insight enrichment failed",
				zap.String("insight_id", insight.ID),
				zap.Error(err),
			)
			return
		}
		s.insights.Update(insight.ID, func(i domain.Insight) domain.Insight {
			i.Description = narrative
			return i
		})
	}()
}

func (s *InsightService) narrate(ctx context.Context, insight domain.Insight) (string, error) {
	prompt := fmt.Sprintf(
		"Rewrite this dashboard insight as one concise sentence for an executive audience: %q (category: %s, impact: %s)",
		insight.Description, insight.Category, insight.Impact,
	)
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   120,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}
	return resp.Choices[0].Message.Content, nil
}
