package models

import "time"

// RequestStatus is the closed set of PurchaseRequest states.
type RequestStatus string

const (
	RequestRequested RequestStatus = "Requested"
	RequestAccepted  RequestStatus = "Accepted"
	RequestRejected  RequestStatus = "Rejected"
)

// TransactionStatus is the closed set of Transaction states.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "Pending"
	TransactionCompleted TransactionStatus = "Completed"
)

// PurchaseRequest is a buyer's intent to buy one product.
type PurchaseRequest struct {
	ID          string        `json:"id"`
	IDProduct   string        `json:"idProduct"`
	IDBuyer     string        `json:"idBuyer"`
	RequestDate time.Time     `json:"requestDate"`
	Status      RequestStatus `json:"status"`
	BuyerName   string        `json:"buyerName,omitempty"`
	ProductName string        `json:"productName,omitempty"`
}

// CreateRequestInput is the body of PurchaseRequest/Create.
type CreateRequestInput struct {
	IDProduct string `json:"idProduct" validate:"required"`
	IDBuyer   string `json:"idBuyer" validate:"required"`
}

// Transaction is created 1:1 from an accepted PurchaseRequest.
type Transaction struct {
	ID                string            `json:"id"`
	IDPurchaseRequest string            `json:"idPurchaseRequest"`
	WasDelivered      bool              `json:"wasDelivered"`
	WasPaid           bool              `json:"wasPaid"`
	Status            TransactionStatus `json:"status"`
}

// CompleteTransactionInput is the body of Transaction/CompleteTransaction.
type CompleteTransactionInput struct {
	ID           string `json:"id" validate:"required"`
	WasDelivered bool   `json:"wasDelivered"`
	WasPaid      bool   `json:"wasPaid"`
}
