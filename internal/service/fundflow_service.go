package service

import (
	"time"

	"github.com/cuixiaoyuan/fundflow/internal/model"
	"github.com/cuixiaoyuan/fundflow/internal/repository"
	"github.com/cuixiaoyuan/fundflow/internal/validation"
)

// FundFlowService handles queries over stored daily fund-flow snapshots.
type FundFlowService struct {
	flowRepo *repository.FundFlowRepository
}

// NewFundFlowService creates a new FundFlowService.
func NewFundFlowService(flowRepo *repository.FundFlowRepository) *FundFlowService {
	return &FundFlowService{flowRepo: flowRepo}
}

// FlowQuery are the daily-flow query parameters as parsed from the request.
type FlowQuery struct {
	Code     string
	Exchange string
	Start    time.Time
	End      time.Time
	Limit    int
}

// GetDaily returns stored snapshots for one stock, newest first. The code
// is accepted in any symbol form; the exchange is inferred from the code
// when not given explicitly.
func (s *FundFlowService) GetDaily(q FlowQuery) ([]model.FundFlowDaily, error) {
	code, exchange, err := resolveCode(q.Code, q.Exchange)
	if err != nil {
		return nil, err
	}
	return s.flowRepo.GetDaily(code, exchange, q.Start, q.End, q.Limit)
}

// GetLatest returns the most recent stored snapshot for one stock.
func (s *FundFlowService) GetLatest(rawCode, rawExchange string) (model.FundFlowDaily, error) {
	code, exchange, err := resolveCode(rawCode, rawExchange)
	if err != nil {
		return model.FundFlowDaily{}, err
	}
	return s.flowRepo.GetLatest(code, exchange)
}

func resolveCode(rawCode, rawExchange string) (code, exchange string, err error) {
	code, err = validation.NormalizeCode(rawCode)
	if err != nil {
		return "", "", err
	}
	if rawExchange != "" {
		symbol, err := validation.NormalizeSymbol(code + "." + rawExchange)
		if err != nil {
			return "", "", err
		}
		return code, symbol[len(symbol)-2:], nil
	}
	return code, validation.InferExchange(code), nil
}
