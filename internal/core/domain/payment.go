package domain

// PaymentHistory is a read-only view of a student's payments, split into
// the two ledgers the backend keeps. Fetched on demand, never cached
// locally, never mutated client-side.
type PaymentHistory struct {
	AdmissionPayments []Payment `json:"admissionPayments"`
	CourseFees        []Payment `json:"courseFees"`
}

// Payment is a single gateway transaction as the backend records it.
type Payment struct {
	ID                    string                `json:"_id"`
	OrderID               string                `json:"order_id"`
	ApplicationID         string                `json:"application_id"`
	AuthID                *string               `json:"auth_id"`
	Authorization         *string               `json:"authorization"`
	BankReference         string                `json:"bank_reference"`
	CfPaymentID           string                `json:"cf_payment_id"`
	CreatedAt             string                `json:"createdAt"`
	Entity                string                `json:"entity"`
	ErrorDetails          *string               `json:"error_details"`
	IsCaptured            bool                  `json:"is_captured"`
	OrderAmount           float64               `json:"order_amount"`
	PaymentAmount         float64               `json:"payment_amount"`
	PaymentCompletionTime string                `json:"payment_completion_time"`
	PaymentCurrency       string                `json:"payment_currency"`
	PaymentGatewayDetails PaymentGatewayDetails `json:"payment_gateway_details"`
	PaymentGroup          string                `json:"payment_group"`
	PaymentMessage        string                `json:"payment_message"`
	PaymentMethod         PaymentMethod         `json:"payment_method"`
	PaymentOffers         *string               `json:"payment_offers"`
	PaymentStatus         string                `json:"payment_status"`
	PaymentTime           string                `json:"payment_time"`
	UpdatedAt             string                `json:"updatedAt"`
}

type PaymentGatewayDetails struct {
	GatewayName             string `json:"gateway_name"`
	GatewayOrderID          string `json:"gateway_order_id"`
	GatewayPaymentID        string `json:"gateway_payment_id"`
	GatewayOrderReferenceID string `json:"gateway_order_reference_id"`
	GatewayStatusCode       string `json:"gateway_status_code"`
	GatewaySettlement       string `json:"gateway_settlement"`
	ID                      string `json:"_id"`
}

type PaymentMethod struct {
	Netbanking *NetbankingMethod `json:"netbanking,omitempty"`
	Card       *CardMethod       `json:"card,omitempty"`
	ID         string            `json:"_id"`
}

type NetbankingMethod struct {
	Channel                 string `json:"channel"`
	NetbankingBankCode      int    `json:"netbanking_bank_code"`
	NetbankingBankName      string `json:"netbanking_bank_name"`
	NetbankingIFSC          string `json:"netbanking_ifsc"`
	NetbankingAccountNumber string `json:"netbanking_account_number"`
}

type CardMethod struct {
	CardBankName           string  `json:"card_bank_name"`
	CardCountry            string  `json:"card_country"`
	CardNetwork            string  `json:"card_network"`
	CardNetworkReferenceID *string `json:"card_network_reference_id"`
	CardNumber             string  `json:"card_number"`
	CardSubType            string  `json:"card_sub_type"`
	CardType               string  `json:"card_type"`
	Channel                string  `json:"channel"`
}
