package dtos

type CreateLeaseRequest struct {
	TenantID      string   `json:"tenantId" validate:"required,uuid"`
	PropertyID    string   `json:"propertyId" validate:"omitempty,uuid"`
	RoomID        string   `json:"roomId" validate:"omitempty,uuid"`
	BedID         string   `json:"bedId" validate:"required,uuid"`
	StartDate     string   `json:"startDate" validate:"required"`
	EndDate       *string  `json:"endDate"`
	RentAmount    float64  `json:"rentAmount" validate:"gt=0"`
	DepositAmount *float64 `json:"depositAmount" validate:"omitempty,gte=0"`
}

type UpdateLeaseStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type RecordPaymentRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
	Method string  `json:"method" validate:"max=40"`
	Date   *string `json:"date"`
}

type ListLeasesQuery struct {
	Status     string
	PropertyID string
	TenantID   string
	BedID      string
}
