package resource

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/amoylab/npipe-admin/internal/proto"
	"github.com/amoylab/npipe-admin/internal/transport"
	"github.com/tidwall/gjson"
)

var errNoSchema = errors.New("no specific schema")

// Decode turns a raw transport outcome into a Resource.
//
// Order of evaluation:
//  1. transport failure
//  2. non-2xx status
//  3. operation schema, falling back to the {code, msg} acknowledgment
func Decode(op proto.Operation, res transport.Result) *Resource {
	out := &Resource{Op: op, Response: res.Response}

	if res.Response == nil {
		msg := ""
		if res.Err != nil {
			msg = res.Err.Error()
		}
		out.Result = errorResult(&TransportError{Msg: msg})
		return out
	}

	resp := res.Response
	if !resp.OK {
		text, _ := resp.Text()
		out.Result = errorResult(&HTTPStatusError{Status: resp.Status, Reason: resp.StatusText, Body: text})
		return out
	}

	payload, err := decodeSchema(op, resp.Bytes)
	if err == nil {
		out.Result = Result{Kind: KindPayload, Payload: payload}
		return out
	}

	ack, ackErr := decodeAck(resp.Bytes)
	if ackErr != nil {
		if errors.Is(err, errNoSchema) {
			err = ackErr
		}
		out.Result = errorResult(&DecodeError{Err: err})
		return out
	}

	if ack.Code != 0 {
		out.Result = Result{
			Kind:    KindError,
			Err:     &ApplicationError{Code: ack.Code, Msg: ack.Msg},
			Code:    ack.Code,
			HasCode: true,
		}
		return out
	}
	out.Result = Result{Kind: KindAck, Ack: ack, Code: ack.Code, HasCode: true}
	return out
}

func errorResult(err error) Result {
	return Result{Kind: KindError, Err: err}
}

func decodeSchema(op proto.Operation, body []byte) (any, error) {
	switch op {
	case proto.OpPlayerList:
		return decodeList[proto.Player](body, "players")
	case proto.OpTunnelList:
		return decodeList[proto.Tunnel](body, "tunnels")
	case proto.OpLogin, proto.OpLogout, proto.OpTestAuth,
		proto.OpAddPlayer, proto.OpUpdatePlayer, proto.OpRemovePlayer,
		proto.OpAddTunnel, proto.OpUpdateTunnel, proto.OpRemoveTunnel:
		return nil, errNoSchema
	default:
		return nil, errNoSchema
	}
}

// decodeList decodes a page whose items live under field. Every field of the
// page is required.
func decodeList[T any](body []byte, field string) (*proto.ListResponse[T], error) {
	var list proto.ListResponse[T]
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, err
	}

	names := []string{"cur_page_number", "total_count", field}
	values := gjson.GetManyBytes(body, names...)
	for i, v := range values {
		if !v.Exists() {
			return nil, fmt.Errorf("missing field `%s`", names[i])
		}
	}
	items := values[2]
	if !items.IsArray() {
		return nil, fmt.Errorf("invalid type for field `%s`: expected a sequence", field)
	}

	list.Items = make([]T, 0, len(items.Array()))
	if err := json.Unmarshal([]byte(items.Raw), &list.Items); err != nil {
		return nil, err
	}
	return &list, nil
}

func decodeAck(body []byte) (proto.GeneralResponse, error) {
	var ack proto.GeneralResponse
	if err := json.Unmarshal(body, &ack); err != nil {
		return ack, err
	}
	if !gjson.GetBytes(body, "code").Exists() {
		return ack, errors.New("missing field `code`")
	}
	return ack, nil
}
