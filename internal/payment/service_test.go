package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rsjournalism/student-portal/config"
	"github.com/rsjournalism/student-portal/internal/api"
)

func TestHistoryDecodesBothLedgers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/payment/get-payment-history/u1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"data":{
			"admissionPayments":[{"_id":"p1","order_id":"o1","payment_amount":25000,"payment_status":"SUCCESS",
				"payment_method":{"_id":"m1","card":{"card_bank_name":"HDFC","card_country":"IN","card_network":"VISA",
					"card_network_reference_id":null,"card_number":"XXXX1234","card_sub_type":"C","card_type":"credit_card","channel":"link"}},
				"payment_gateway_details":{"gateway_name":"CASHFREE","gateway_order_id":"g1","gateway_payment_id":"gp1",
					"gateway_order_reference_id":"r1","gateway_status_code":"200","gateway_settlement":"cashfree","_id":"gd1"}}],
			"courseFees":[]}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := api.NewClient(srv.URL, 5*time.Second, nil, nil)
	svc := NewService(client, &config.APIConfig{})

	history, err := svc.History(context.Background(), "u1")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history.AdmissionPayments) != 1 {
		t.Fatalf("expected one admission payment, got %d", len(history.AdmissionPayments))
	}
	if len(history.CourseFees) != 0 {
		t.Fatalf("expected empty course fees, got %d", len(history.CourseFees))
	}

	p := history.AdmissionPayments[0]
	if p.ID != "p1" || p.PaymentAmount != 25000 || p.PaymentStatus != "SUCCESS" {
		t.Fatalf("unexpected payment: %+v", p)
	}
	if p.PaymentMethod.Card == nil || p.PaymentMethod.Card.CardBankName != "HDFC" {
		t.Fatalf("expected card method decoded, got %+v", p.PaymentMethod)
	}
	if p.PaymentMethod.Netbanking != nil {
		t.Fatal("netbanking should be absent")
	}
	if p.PaymentGatewayDetails.GatewayName != "CASHFREE" {
		t.Fatalf("unexpected gateway details: %+v", p.PaymentGatewayDetails)
	}
}

func TestHistorySurfacesRemoteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"status":403,"message":"forbidden"}`))
	}))
	defer srv.Close()

	client := api.NewClient(srv.URL, 5*time.Second, nil, nil)
	svc := NewService(client, &config.APIConfig{})

	_, err := svc.History(context.Background(), "u1")
	apiErr, ok := api.AsError(err)
	if !ok || apiErr.Status != 403 || apiErr.Message != "forbidden" {
		t.Fatalf("expected normalized 403, got %v", err)
	}
}
