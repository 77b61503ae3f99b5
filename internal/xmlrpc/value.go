// Package xmlrpc is the wire transport adapter named but left unspecified by
// the design: §1 and §6 describe XML-RPC over HTTP as an external,
// pluggable collaborator ("not specified beyond their interface to the
// core"). No example repo in the retrieval pack ships a complete,
// importable XML-RPC client+server pair (the only sighting,
// fetchrobotics/rosgo/xmlrpc, appears solely as a server-side dispatch
// table in a single reference file with no client call sites retrieved),
// so this package hand-rolls the wire codec on encoding/xml and net/http
// rather than risk grounding an import on an API this repo never observed
// in full. The dispatch-table shape (a method name to callback map, the
// caller_id-first calling convention) mirrors that reference file.
package xmlrpc

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is any value representable on the wire: nil, bool, int, float64,
// string, []byte, []interface{}, or map[string]interface{}.
type Value interface{}

// marshalValue writes the <value>...</value> element for v.
func marshalValue(buf *bytes.Buffer, v Value) error {
	buf.WriteString("<value>")
	if err := marshalInner(buf, v); err != nil {
		return err
	}
	buf.WriteString("</value>")
	return nil
}

func marshalInner(buf *bytes.Buffer, v Value) error {
	switch t := v.(type) {
	case nil:
		buf.WriteString("<nil/>")
	case bool:
		if t {
			buf.WriteString("<boolean>1</boolean>")
		} else {
			buf.WriteString("<boolean>0</boolean>")
		}
	case int:
		buf.WriteString("<int>" + strconv.Itoa(t) + "</int>")
	case int32:
		buf.WriteString("<int>" + strconv.Itoa(int(t)) + "</int>")
	case int64:
		buf.WriteString("<int>" + strconv.FormatInt(t, 10) + "</int>")
	case float64:
		buf.WriteString("<double>" + strconv.FormatFloat(t, 'g', -1, 64) + "</double>")
	case string:
		buf.WriteString("<string>")
		xml.EscapeText(buf, []byte(t)) //nolint:errcheck
		buf.WriteString("</string>")
	case []byte:
		buf.WriteString("<base64>" + base64.StdEncoding.EncodeToString(t) + "</base64>")
	case []interface{}:
		buf.WriteString("<array><data>")
		for _, e := range t {
			if err := marshalValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteString("</data></array>")
	case []string:
		buf.WriteString("<array><data>")
		for _, e := range t {
			if err := marshalValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteString("</data></array>")
	case map[string]interface{}:
		buf.WriteString("<struct>")
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			buf.WriteString("<member><name>")
			xml.EscapeText(buf, []byte(k)) //nolint:errcheck
			buf.WriteString("</name>")
			if err := marshalValue(buf, t[k]); err != nil {
				return err
			}
			buf.WriteString("</member>")
		}
		buf.WriteString("</struct>")
	default:
		return fmt.Errorf("xmlrpc: unsupported value type %T", v)
	}
	return nil
}

// MarshalCall renders a complete methodCall document.
func MarshalCall(method string, params []Value) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<methodCall><methodName>")
	xml.EscapeText(&buf, []byte(method)) //nolint:errcheck
	buf.WriteString("</methodName><params>")
	for _, p := range params {
		buf.WriteString("<param>")
		if err := marshalValue(&buf, p); err != nil {
			return nil, err
		}
		buf.WriteString("</param>")
	}
	buf.WriteString("</params></methodCall>")
	return buf.Bytes(), nil
}

// MarshalResponse renders a complete methodResponse document carrying a
// single successful return value (the master always replies with exactly
// one (status, message, value) triple per §6).
func MarshalResponse(v Value) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<methodResponse><params><param>")
	if err := marshalValue(&buf, v); err != nil {
		return nil, err
	}
	buf.WriteString("</param></params></methodResponse>")
	return buf.Bytes(), nil
}

// MarshalFault renders a methodResponse carrying a <fault>, used only for
// transport-level failures (malformed request, unknown method) that
// precede the (status, message, value) convention applying at all.
func MarshalFault(code int, message string) ([]byte, error) {
	fault := map[string]interface{}{
		"faultCode":   code,
		"faultString": message,
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	buf.WriteString("<methodResponse><fault>")
	if err := marshalValue(&buf, fault); err != nil {
		return nil, err
	}
	buf.WriteString("</fault></methodResponse>")
	return buf.Bytes(), nil
}

// rawNode is a generic XML tree used to decode <value> contents before
// converting them to Go values; encoding/xml's struct tags can't express
// XML-RPC's polymorphic value union directly.
type rawNode struct {
	XMLName xml.Name
	Content string     `xml:",chardata"`
	Nodes   []rawNode  `xml:",any"`
	Attrs   []xml.Attr `xml:",any,attr"`
}

func decodeValue(n rawNode) (Value, error) {
	// A bare <value>text</value> with no typed child is an implicit string.
	typed := n.Nodes
	if len(typed) == 0 {
		return strings.TrimSpace(n.Content), nil
	}
	child := typed[0]
	switch child.XMLName.Local {
	case "nil":
		return nil, nil
	case "boolean":
		return strings.TrimSpace(child.Content) == "1", nil
	case "int", "i4", "i8":
		i, err := strconv.ParseInt(strings.TrimSpace(child.Content), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("xmlrpc: bad int %q: %w", child.Content, err)
		}
		return i, nil
	case "double":
		f, err := strconv.ParseFloat(strings.TrimSpace(child.Content), 64)
		if err != nil {
			return nil, fmt.Errorf("xmlrpc: bad double %q: %w", child.Content, err)
		}
		return f, nil
	case "string":
		return child.Content, nil
	case "base64":
		b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(child.Content))
		if err != nil {
			return nil, fmt.Errorf("xmlrpc: bad base64: %w", err)
		}
		return b, nil
	case "array":
		var out []interface{}
		for _, dataNode := range child.Nodes {
			if dataNode.XMLName.Local != "data" {
				continue
			}
			for _, vn := range dataNode.Nodes {
				if vn.XMLName.Local != "value" {
					continue
				}
				v, err := decodeValue(vn)
				if err != nil {
					return nil, err
				}
				out = append(out, v)
			}
		}
		return out, nil
	case "struct":
		out := make(map[string]interface{})
		for _, mNode := range child.Nodes {
			if mNode.XMLName.Local != "member" {
				continue
			}
			var name string
			var val Value
			for _, inner := range mNode.Nodes {
				switch inner.XMLName.Local {
				case "name":
					name = inner.Content
				case "value":
					v, err := decodeValue(inner)
					if err != nil {
						return nil, err
					}
					val = v
				}
			}
			out[name] = val
		}
		return out, nil
	default:
		return strings.TrimSpace(n.Content), nil
	}
}
