package matching

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/abdoElHodaky/nanobook/internal/stop"
	"github.com/abdoElHodaky/nanobook/pkg/types"
)

// eventWire is the JSON line format: one tagged object per event. Only
// the fields relevant to Kind are copied in, and every field is
// omitempty, so fields at their zero value (all irrelevant ones, and a
// relevant one such as Side Buy or GTC) are left out and decode back to
// that zero value.
type eventWire struct {
	Kind        string            `json:"kind"`
	Side        types.Side        `json:"side,omitempty"`
	Price       types.Price       `json:"price,omitempty"`
	Quantity    types.Quantity    `json:"quantity,omitempty"`
	TimeInForce types.TimeInForce `json:"time_in_force,omitempty"`
	OrderID     types.OrderId     `json:"order_id,omitempty"`
	NewPrice    types.Price       `json:"new_price,omitempty"`
	NewQuantity types.Quantity    `json:"new_quantity,omitempty"`

	StopPrice   types.Price      `json:"stop_price,omitempty"`
	LimitPrice  *types.Price     `json:"limit_price,omitempty"`
	TrailMethod stop.TrailMethod `json:"trail_method,omitempty"`
	FixedOffset *types.Price     `json:"fixed_offset,omitempty"`
	Percentage  *decimal.Decimal `json:"percentage,omitempty"`
	AtrMultiple *decimal.Decimal `json:"atr_multiple,omitempty"`
	AtrPeriod   int              `json:"atr_period,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (e Event) MarshalJSON() ([]byte, error) {
	w := eventWire{Kind: e.Kind.String()}
	switch e.Kind {
	case EventSubmitLimit:
		w.Side, w.Price, w.Quantity, w.TimeInForce = e.Side, e.Price, e.Quantity, e.TimeInForce
	case EventSubmitMarket:
		w.Side, w.Quantity = e.Side, e.Quantity
	case EventCancel:
		w.OrderID = e.OrderID
	case EventModify:
		w.OrderID, w.NewPrice, w.NewQuantity = e.OrderID, e.NewPrice, e.NewQuantity
	case EventSubmitStop:
		w.Side, w.StopPrice, w.LimitPrice, w.Quantity, w.TimeInForce = e.Side, e.StopPrice, e.LimitPrice, e.Quantity, e.TimeInForce
	case EventSubmitTrailingStop:
		w.Side, w.Quantity, w.TrailMethod = e.Side, e.Quantity, e.TrailMethod
		w.FixedOffset, w.Percentage, w.AtrMultiple, w.AtrPeriod = e.FixedOffset, e.Percentage, e.AtrMultiple, e.AtrPeriod
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Event) UnmarshalJSON(data []byte) error {
	var w eventWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case EventSubmitLimit.String():
		*e = NewSubmitLimitEvent(w.Side, w.Price, w.Quantity, w.TimeInForce)
	case EventSubmitMarket.String():
		*e = NewSubmitMarketEvent(w.Side, w.Quantity)
	case EventCancel.String():
		*e = NewCancelEvent(w.OrderID)
	case EventModify.String():
		*e = NewModifyEvent(w.OrderID, w.NewPrice, w.NewQuantity)
	case EventSubmitStop.String():
		*e = NewSubmitStopEvent(w.Side, w.StopPrice, w.LimitPrice, w.Quantity, w.TimeInForce)
	case EventSubmitTrailingStop.String():
		cfg := stop.TrailConfig{
			FixedOffset: w.FixedOffset,
			Percentage:  w.Percentage,
			AtrMultiple: w.AtrMultiple,
			AtrPeriod:   w.AtrPeriod,
		}
		*e = NewSubmitTrailingStopEvent(w.Side, w.Quantity, cfg, w.TrailMethod)
	default:
		return fmt.Errorf("matching: unknown event kind %q", w.Kind)
	}
	return nil
}
