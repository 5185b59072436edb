package devkit

import (
	"fmt"
	"net/http"
)

const SampleOperationJSON = `{
	"id": "915a9e5e-05bb-4d5e-a9ae-62e0dbaa0f4e",
	"name": "authorize_payment",
	"data": "A1*A100CZK*Q238400856/0300**D20190629*NUtility Bill Payment - 05/2019",
	"operationCreated": "2026-01-01T11:55:00+0000",
	"operationExpires": "2026-01-01T12:05:00+0000",
	"allowedSignatureType": {
		"type": "2FA",
		"variants": ["possession_knowledge", "possession_biometry"]
	},
	"formData": {
		"title": "Confirm Payment",
		"message": "Hello,\nplease confirm following payment:",
		"resultTexts": {"success": "Payment was confirmed"},
		"attributes": [
			{"type": "HEADING", "label": {"id": "operation.heading", "value": "Utility Payment"}},
			{"type": "AMOUNT", "label": {"id": "operation.amount", "value": "Amount"}, "amount": 100, "currency": "CZK", "amountFormatted": "100,00", "currencyFormatted": "Kč"},
			{"type": "KEY_VALUE", "label": {"id": "operation.account", "value": "To Account"}, "value": "238400856/0300"},
			{"type": "NOTE", "label": {"id": "operation.note", "value": "Note"}, "note": "Utility Bill Payment - 05/2019"}
		]
	}
}`

// OKResponse wraps a payload in an OK envelope. An empty payload omits
// responseObject.
func OKResponse(payload string) string {
	if payload == "" {
		return `{"status":"OK"}`
	}
	return fmt.Sprintf(`{"status":"OK","responseObject":%s}`, payload)
}

func ErrorResponse(code string, message string) string {
	return fmt.Sprintf(`{"status":"ERROR","responseObject":{"code":%q,"message":%q}}`, code, message)
}

func OperationListScript(operations ...string) TransportScript {
	payload := "["
	for i, operation := range operations {
		if i > 0 {
			payload += ","
		}
		payload += operation
	}
	payload += "]"
	return JSONResponse(http.StatusOK, OKResponse(payload))
}
