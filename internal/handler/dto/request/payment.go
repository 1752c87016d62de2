package request

// PaymentCallbackRequest carries the gateway's reconciliation callback. The
// gateway appends trx_ref and status as query parameters on the callback URL.
type PaymentCallbackRequest struct {
	TxRef  string `form:"trx_ref" json:"trx_ref" binding:"required"`
	Status string `form:"status" json:"status" binding:"required"`
}

// Succeeded reports whether the callback signals a completed charge. Any
// other status is treated as a failure signal.
func (r *PaymentCallbackRequest) Succeeded() bool {
	return r.Status == "success"
}
