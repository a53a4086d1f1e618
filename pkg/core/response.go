package core

import "encoding/json"

// Response is returned by every engine call
type Response struct {
	Status  Status
	Reason  string
	OrderID OrderID
}

// OK reports whether the call succeeded
func (r Response) OK() bool {
	return r.Status == StatusSuccess
}

func success(reason string, id OrderID) Response {
	return Response{Status: StatusSuccess, Reason: reason, OrderID: id}
}

// failure builds a response whose reason is the error text. Placement
// responses keep the id when one was already assigned.
func failure(err error, id OrderID) Response {
	reason := "unknown error"
	if err != nil {
		reason = err.Error()
	}
	return Response{Status: StatusFromError(err), Reason: reason, OrderID: id}
}

// MarshalJSON implements json.Marshaler interface for Response
func (r Response) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Status  string  `json:"status"`
		Reason  string  `json:"reason"`
		OrderID OrderID `json:"orderID"`
	}{
		Status:  r.Status.String(),
		Reason:  r.Reason,
		OrderID: r.OrderID,
	})
}
