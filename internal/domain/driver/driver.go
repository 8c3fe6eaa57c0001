package driver

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

type Driver struct {
	ID            int64  `json:"id,omitempty"`
	OrgID         int64  `json:"orgId,omitempty"`
	Name          string `json:"name"`
	Phone         string `json:"phoneNumber"`
	LicenseNo     string `json:"licenseNo"`
	LicenseExpiry string `json:"licenseExpiry,omitempty"`
	Address       string `json:"address,omitempty"`
	Status        Status `json:"status"`
}

func New() Driver {
	return Driver{Status: StatusActive}
}

func (d Driver) RecordID() string {
	if d.ID == 0 {
		return ""
	}
	return strconv.FormatInt(d.ID, 10)
}

func (d Driver) Validate() validation.Errors {
	e := validation.Errors{}
	e.Required("name", d.Name)
	e.Phone("phoneNumber", d.Phone)
	e.Required("licenseNo", d.LicenseNo)
	if strings.TrimSpace(d.LicenseExpiry) != "" {
		e.Date("licenseExpiry", d.LicenseExpiry)
	}
	e.OneOf("status", string(d.Status), string(StatusActive), string(StatusInactive))
	return e
}

func (d Driver) Payload(orgID int64) any {
	d.OrgID = orgID
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = validation.NormalizePhone(d.Phone)
	d.LicenseNo = strings.ToUpper(strings.TrimSpace(d.LicenseNo))
	if d.Status == "" {
		d.Status = StatusActive
	}
	return d
}
