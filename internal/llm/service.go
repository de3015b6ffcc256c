package llm

import (
	"context"

	"go.uber.org/zap"
)

type Service struct {
	client Client
	log    *zap.Logger
}

func NewService(client Client, log *zap.Logger) *Service {
	return &Service{client: client, log: log}
}

func (s *Service) PredictDemand(
	ctx context.Context,
	req DemandPredictionRequest,
) (*DemandPrediction, error) {
	return Run(ctx, s.client, s.log, PredictDemandTask, req)
}

func (s *Service) AnalyzeWastage(
	ctx context.Context,
	req WastageAnalysisRequest,
) (*WastageAnalysis, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return Run(ctx, s.client, s.log, AnalyzeWastageTask, req)
}
