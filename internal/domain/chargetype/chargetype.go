package chargetype

import (
	"strconv"
	"strings"

	"fleetdesk/internal/domain/validation"
)

type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// ChargeType is a billable line item (freight, detention, loading, toll...).
type ChargeType struct {
	ID       int64   `json:"id,omitempty"`
	OrgID    int64   `json:"orgId,omitempty"`
	Name     string  `json:"chargeType"`
	Code     string  `json:"chargeCode"`
	Category string  `json:"category"`
	Taxable  bool    `json:"taxable"`
	GSTRate  float64 `json:"gstPercent,omitempty"`
	Status   Status  `json:"status"`
}

func New() ChargeType {
	return ChargeType{Status: StatusActive, Category: "Freight"}
}

func (c ChargeType) RecordID() string {
	if c.ID == 0 {
		return ""
	}
	return strconv.FormatInt(c.ID, 10)
}

func (c ChargeType) Validate() validation.Errors {
	e := validation.Errors{}
	e.Required("chargeType", c.Name)
	e.Code("chargeCode", c.Code)
	e.Required("category", c.Category)
	if c.Taxable && (c.GSTRate <= 0 || c.GSTRate > 28) {
		e.Add("gstPercent", "must be between 0 and 28 for taxable charges")
	}
	e.OneOf("status", string(c.Status), string(StatusActive), string(StatusInactive))
	return e
}

func (c ChargeType) Payload(orgID int64) any {
	c.OrgID = orgID
	c.Name = strings.TrimSpace(c.Name)
	if !c.Taxable {
		c.GSTRate = 0
	}
	return c
}
