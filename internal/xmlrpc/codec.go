package xmlrpc

import (
	"encoding/xml"
	"fmt"
)

// Call is a decoded incoming methodCall.
type Call struct {
	MethodName string
	Params     []Value
}

type callDoc struct {
	XMLName    xml.Name `xml:"methodCall"`
	MethodName string   `xml:"methodName"`
	Params     struct {
		Param []struct {
			Value rawNode `xml:"value"`
		} `xml:"param"`
	} `xml:"params"`
}

// UnmarshalCall decodes a methodCall document.
func UnmarshalCall(body []byte) (Call, error) {
	var doc callDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return Call{}, fmt.Errorf("xmlrpc: decode methodCall: %w", err)
	}
	params := make([]Value, 0, len(doc.Params.Param))
	for _, p := range doc.Params.Param {
		v, err := decodeValue(p.Value)
		if err != nil {
			return Call{}, err
		}
		params = append(params, v)
	}
	return Call{MethodName: doc.MethodName, Params: params}, nil
}

type responseDoc struct {
	XMLName xml.Name `xml:"methodResponse"`
	Params  struct {
		Param []struct {
			Value rawNode `xml:"value"`
		} `xml:"param"`
	} `xml:"params"`
	Fault struct {
		Value rawNode `xml:"value"`
	} `xml:"fault"`
}

// UnmarshalResponse decodes a methodResponse document, returning the single
// top-level value (or an error built from <fault> if present).
func UnmarshalResponse(body []byte) (Value, error) {
	var doc responseDoc
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("xmlrpc: decode methodResponse: %w", err)
	}
	if doc.Fault.Value.XMLName.Local != "" || len(doc.Fault.Value.Nodes) > 0 {
		fv, err := decodeValue(doc.Fault.Value)
		if err != nil {
			return nil, err
		}
		if m, ok := fv.(map[string]interface{}); ok {
			return nil, fmt.Errorf("xmlrpc: fault %v: %v", m["faultCode"], m["faultString"])
		}
		return nil, fmt.Errorf("xmlrpc: fault response")
	}
	if len(doc.Params.Param) == 0 {
		return nil, nil
	}
	return decodeValue(doc.Params.Param[0].Value)
}
