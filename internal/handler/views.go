package handler

import (
	"time"

	"github.com/efreitasn/fxcredit/internal/domain"
)

const timeFormat = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}

// lastUpdated shows an unparseable last_updated as it was configured.
func lastUpdated(t time.Time, raw string) string {
	if raw != "" {
		return raw
	}
	return formatTime(t)
}

type primeBrokerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsCentralPB bool   `json:"is_central_pb"`
}

type customerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type sessionResponse struct {
	SessionID  string `json:"session_id"`
	CustomerID string `json:"customer_id"`
	PBID       string `json:"pb_id"`
	Protocol   string `json:"protocol"`
}

type customerLimitResponse struct {
	CustomerID  string  `json:"customer_id"`
	PBID        string  `json:"pb_id"`
	LimitAmount float64 `json:"limit_amount"`
	Currency    string  `json:"currency"`
	LastUpdated string  `json:"last_updated"`
}

type creditLineResponse struct {
	NonCentralPBID string  `json:"non_central_pb_id"`
	CentralPBID    string  `json:"central_pb_id"`
	LimitAmount    float64 `json:"limit_amount"`
	Currency       string  `json:"currency"`
	LastUpdated    string  `json:"last_updated"`
}

type exposureResponse struct {
	PBID               string  `json:"pb_id"`
	PBName             string  `json:"pb_name"`
	CentralPBID        string  `json:"central_pb_id"`
	TotalIssued        float64 `json:"total_issued"`
	CreditLine         float64 `json:"credit_line"`
	UtilizationPercent float64 `json:"utilization_percent"`
	IsWithinLimit      bool    `json:"is_within_limit"`
	CustomerCount      int     `json:"customer_count"`
	AvailableCredit    float64 `json:"available_credit"`
	OpenExposure       float64 `json:"open_exposure"`
}

// orderResponse always carries reject_code and reject_reason; both are
// null for executed orders.
type orderResponse struct {
	TradeID      int64   `json:"trade_id"`
	CustomerID   string  `json:"customer_id"`
	PBID         string  `json:"pb_id"`
	SessionID    string  `json:"session_id"`
	Instrument   string  `json:"instrument"`
	Side         string  `json:"side"`
	Notional     float64 `json:"notional"`
	Status       string  `json:"status"`
	RejectCode   *string `json:"reject_code"`
	RejectReason *string `json:"reject_reason"`
	CreatedAt    string  `json:"created_at"`
}

type positionResponse struct {
	CustomerID  string  `json:"customer_id"`
	PBID        string  `json:"pb_id"`
	NetPosition float64 `json:"net_position"`
	Exposure    float64 `json:"exposure"`
}

type findingResponse struct {
	Kind     string `json:"kind"`
	Severity string `json:"severity"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

func buildCustomerLimitResponse(l domain.CustomerLimit) customerLimitResponse {
	return customerLimitResponse{
		CustomerID:  l.CustomerID,
		PBID:        l.PBID,
		LimitAmount: domain.AmountToFloat(l.LimitAmount),
		Currency:    l.Currency,
		LastUpdated: lastUpdated(l.LastUpdated, l.LastUpdatedRaw),
	}
}

func buildCreditLineResponse(l domain.PBCreditLine) creditLineResponse {
	return creditLineResponse{
		NonCentralPBID: l.NonCentralPBID,
		CentralPBID:    l.CentralPBID,
		LimitAmount:    domain.AmountToFloat(l.LimitAmount),
		Currency:       l.Currency,
		LastUpdated:    lastUpdated(l.LastUpdated, l.LastUpdatedRaw),
	}
}

func buildExposureResponse(r domain.ExposureReport) exposureResponse {
	return exposureResponse{
		PBID:               r.PBID,
		PBName:             r.PBName,
		CentralPBID:        r.CentralPBID,
		TotalIssued:        domain.AmountToFloat(r.TotalIssued),
		CreditLine:         domain.AmountToFloat(r.CreditLine),
		UtilizationPercent: domain.AmountToFloat(r.Utilization.Round(2)),
		IsWithinLimit:      r.IsWithinLimit,
		CustomerCount:      r.CustomerCount,
		AvailableCredit:    domain.AmountToFloat(r.AvailableCredit),
		OpenExposure:       domain.AmountToFloat(r.OpenExposure),
	}
}

func buildOrderResponse(o *domain.Order) orderResponse {
	resp := orderResponse{
		TradeID:    o.TradeID,
		CustomerID: o.CustomerID,
		PBID:       o.PBID,
		SessionID:  o.SessionID,
		Instrument: o.Instrument,
		Side:       string(o.Side),
		Notional:   domain.AmountToFloat(o.Notional),
		Status:     string(o.Status),
		CreatedAt:  formatTime(o.CreatedAt),
	}
	if o.Status == domain.OrderStatusRejected {
		code := string(o.RejectCode)
		reason := o.RejectReason
		resp.RejectCode = &code
		resp.RejectReason = &reason
	}
	return resp
}

func buildPositionResponse(p domain.Position) positionResponse {
	return positionResponse{
		CustomerID:  p.CustomerID,
		PBID:        p.PBID,
		NetPosition: domain.AmountToFloat(p.Net),
		Exposure:    domain.AmountToFloat(p.Exposure()),
	}
}
