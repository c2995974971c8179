package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"

	"github.com/symptom-analyzer/internal/domain"
	"github.com/symptom-analyzer/internal/service"
)

// AnalyzeSymptomsParams defines parameters for the analyze_symptoms tool
type AnalyzeSymptomsParams struct {
	Text string `json:"text" jsonschema:"free-text description of the symptoms"`
}

// ListConditionsParams takes no arguments
type ListConditionsParams struct{}

// GetConditionInfoParams defines parameters for the get_condition_info tool
type GetConditionInfoParams struct {
	Condition string `json:"condition" jsonschema:"condition name exactly as listed by list_conditions"`
}

// ConditionInfo describes one condition
type ConditionInfo struct {
	Condition        string                  `json:"condition"`
	Medications      []string                `json:"medications,omitempty"`
	ConsultationFees domain.ConsultationFees `json:"consultationFees"`
	Currency         string                  `json:"currency"`
}

func (s *Server) handleAnalyzeSymptoms(ctx context.Context, req *mcp.CallToolRequest, params AnalyzeSymptomsParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolAnalyzeSymptoms).Info("Tool invoked")

	result, err := s.analyzer.Analyze(ctx, params.Text)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"tool":  ToolAnalyzeSymptoms,
			"error": err.Error(),
		}).Error("Tool failed")
		return errorResult(domain.AnalysisFailedMessage), nil, nil
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: service.FormatSummary(result)},
			&mcp.TextContent{Text: string(data)},
		},
	}, nil, nil
}

func (s *Server) handleListConditions(ctx context.Context, req *mcp.CallToolRequest, _ ListConditionsParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithField("tool", ToolListConditions).Info("Tool invoked")

	conditions := s.catalog.Conditions()
	infos := make([]ConditionInfo, 0, len(conditions))
	for _, name := range conditions {
		fees, _ := s.catalog.Fees(name)
		infos = append(infos, ConditionInfo{
			Condition:        name,
			ConsultationFees: fees,
			Currency:         s.catalog.Currency(),
		})
	}

	return jsonResult(infos)
}

func (s *Server) handleGetConditionInfo(ctx context.Context, req *mcp.CallToolRequest, params GetConditionInfoParams) (*mcp.CallToolResult, any, error) {
	s.logger.WithFields(logrus.Fields{
		"tool":      ToolGetConditionInfo,
		"condition": params.Condition,
	}).Info("Tool invoked")

	if _, ok := s.catalog.ConditionIndex(params.Condition); !ok {
		return errorResult(fmt.Sprintf("unknown condition: %q", params.Condition)), nil, nil
	}

	fees, _ := s.catalog.Fees(params.Condition)
	meds, _ := s.catalog.Medications(params.Condition)
	return jsonResult(ConditionInfo{
		Condition:        params.Condition,
		Medications:      meds,
		ConsultationFees: fees,
		Currency:         s.catalog.Currency(),
	})
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: message}},
	}
}
