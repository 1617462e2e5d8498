package panelapi

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// envelope is the { success, message, data } wrapper every endpoint returns.
type envelope struct {
	Success bool
	Message string
	Data    jx.Raw
}

func decodeEnvelope(body []byte) (envelope, error) {
	var env envelope
	if len(body) == 0 {
		return env, errors.New("empty body")
	}

	d := jx.DecodeBytes(body)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "success":
			v, err := d.Bool()
			if err != nil {
				return errors.Wrap(err, "success")
			}
			env.Success = v
		case "message":
			if d.Next() == jx.Null {
				return d.Null()
			}
			v, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "message")
			}
			env.Message = v
		case "data":
			raw, err := d.Raw()
			if err != nil {
				return errors.Wrap(err, "data")
			}
			env.Data = raw
		default:
			return d.Skip()
		}
		return nil
	})
	if err != nil {
		return envelope{}, errors.Wrap(err, "decode envelope")
	}
	return env, nil
}

// hasData reports whether the envelope carries a non-null payload.
func (e envelope) hasData() bool {
	return len(e.Data) > 0 && e.Data.Type() != jx.Null
}

func (e envelope) decodeData(out any) error {
	if out == nil || !e.hasData() {
		return nil
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return errors.Wrap(err, "decode data")
	}
	return nil
}
