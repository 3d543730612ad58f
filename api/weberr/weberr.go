package weberr

import "errors"

// Opt decorates an error with data used when answering the request.
type Opt func(error) error

func Wrap(err error, opts ...Opt) error {
	for _, opt := range opts {
		err = opt(err)
	}
	return err
}

// WithResponse attaches the body and status code sent to the client.
func WithResponse(body interface{}, status int) Opt {
	return func(err error) error {
		return &responseError{error: err, body: body, status: status}
	}
}

// WithFields attaches log fields. Fields of several layers are merged by
// Fields, outer layers winning on conflicting keys.
func WithFields(fields map[string]interface{}) Opt {
	return func(err error) error {
		return &fieldsError{error: err, fields: fields}
	}
}

type responseError struct {
	error
	body   interface{}
	status int
}

func (e *responseError) Response() (interface{}, int) { return e.body, e.status }

func (e *responseError) Unwrap() error { return e.error }

type fieldsError struct {
	error
	fields map[string]interface{}
}

func (e *fieldsError) Fields() map[string]interface{} { return e.fields }

func (e *fieldsError) Unwrap() error { return e.error }

type responder interface {
	Response() (body interface{}, status int)
}

// Response returns the outermost response attached to err.
func Response(err error) (body interface{}, status int, ok bool) {
	var re responder
	if errors.As(err, &re) {
		body, code := re.Response()
		return body, code, true
	}
	return nil, 0, false
}

// Fields collects the log fields attached anywhere in err's chain.
func Fields(err error) (map[string]interface{}, bool) {
	var out map[string]interface{}

	for e := err; e != nil; e = errors.Unwrap(e) {
		fe, ok := e.(*fieldsError)
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]interface{})
		}
		for k, v := range fe.fields {
			if _, set := out[k]; !set {
				out[k] = v
			}
		}
	}

	return out, out != nil
}
