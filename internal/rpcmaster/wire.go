package rpcmaster

import (
	"context"
	"fmt"

	"github.com/nmxmxh/rosmaster/internal/xmlrpc"
	"github.com/nmxmxh/rosmaster/pkg/contextx"
	"go.uber.org/zap"
)

// resultValue renders a Result as the three-element wire tuple (§6).
func resultValue(r Result) xmlrpc.Value {
	return []interface{}{int64(r.Status), r.Message, r.Value}
}

func str(params []xmlrpc.Value, i int) (string, error) {
	if i >= len(params) {
		return "", fmt.Errorf("missing argument %d", i)
	}
	s, ok := params[i].(string)
	if !ok {
		return "", fmt.Errorf("argument %d: expected string, got %T", i, params[i])
	}
	return s, nil
}

func arg(params []xmlrpc.Value, i int) (xmlrpc.Value, error) {
	if i >= len(params) {
		return nil, fmt.Errorf("missing argument %d", i)
	}
	return params[i], nil
}

// Handlers builds the full method-name-to-Method dispatch table for
// internal/xmlrpc.NewHandler, covering every operation in §4.5's table
// plus system.multicall.
func (f *Facade) Handlers() map[string]xmlrpc.Method {
	h := map[string]xmlrpc.Method{}

	h["getPid"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, err := str(p, 0)
		if err != nil {
			return nil, err
		}
		return resultValue(f.GetPid(callerID)), nil
	}
	h["getUri"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, err := str(p, 0)
		if err != nil {
			return nil, err
		}
		return resultValue(f.GetURI(callerID)), nil
	}
	h["shutdown"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, err := str(p, 0)
		if err != nil {
			return nil, err
		}
		msg := ""
		if len(p) > 1 {
			msg, _ = p[1].(string)
		}
		return resultValue(f.Shutdown(callerID, msg)), nil
	}
	h["deleteParam"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, key, err := str2(p)
		if err != nil {
			return nil, err
		}
		return resultValue(f.DeleteParam(callerID, key)), nil
	}
	h["setParam"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, err := str(p, 0)
		if err != nil {
			return nil, err
		}
		key, err := str(p, 1)
		if err != nil {
			return nil, err
		}
		v, err := arg(p, 2)
		if err != nil {
			return nil, err
		}
		return resultValue(f.SetParam(callerID, key, v)), nil
	}
	h["getParam"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, key, err := str2(p)
		if err != nil {
			return nil, err
		}
		return resultValue(f.GetParam(callerID, key)), nil
	}
	h["hasParam"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, key, err := str2(p)
		if err != nil {
			return nil, err
		}
		return resultValue(f.HasParam(callerID, key)), nil
	}
	h["searchParam"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, key, err := str2(p)
		if err != nil {
			return nil, err
		}
		return resultValue(f.SearchParam(callerID, key)), nil
	}
	h["getParamNames"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, err := str(p, 0)
		if err != nil {
			return nil, err
		}
		return resultValue(f.GetParamNames(callerID)), nil
	}
	h["subscribeParam"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, err := str(p, 0)
		if err != nil {
			return nil, err
		}
		callerAPI, err := str(p, 1)
		if err != nil {
			return nil, err
		}
		key, err := str(p, 2)
		if err != nil {
			return nil, err
		}
		return resultValue(f.SubscribeParam(callerID, callerAPI, key)), nil
	}
	h["unsubscribeParam"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, key, err := str2(p)
		if err != nil {
			return nil, err
		}
		return resultValue(f.UnsubscribeParam(callerID, key)), nil
	}
	h["registerService"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, service, serviceAPI, callerAPI, err := str4(p)
		if err != nil {
			return nil, err
		}
		return resultValue(f.RegisterService(callerID, service, serviceAPI, callerAPI)), nil
	}
	h["unregisterService"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, service, serviceAPI, err := str3(p)
		if err != nil {
			return nil, err
		}
		return resultValue(f.UnregisterService(callerID, service, serviceAPI)), nil
	}
	h["lookupService"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, service, err := str2(p)
		if err != nil {
			return nil, err
		}
		return resultValue(f.LookupService(callerID, service)), nil
	}
	h["registerSubscriber"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, topic, topicType, callerAPI, err := str4(p)
		if err != nil {
			return nil, err
		}
		return resultValue(f.RegisterSubscriber(callerID, topic, topicType, callerAPI)), nil
	}
	h["unregisterSubscriber"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, topic, callerAPI, err := str3(p)
		if err != nil {
			return nil, err
		}
		return resultValue(f.UnregisterSubscriber(callerID, topic, callerAPI)), nil
	}
	h["registerPublisher"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, topic, topicType, callerAPI, err := str4(p)
		if err != nil {
			return nil, err
		}
		return resultValue(f.RegisterPublisher(callerID, topic, topicType, callerAPI)), nil
	}
	h["unregisterPublisher"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, topic, callerAPI, err := str3(p)
		if err != nil {
			return nil, err
		}
		return resultValue(f.UnregisterPublisher(callerID, topic, callerAPI)), nil
	}
	h["lookupNode"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, nodeName, err := str2(p)
		if err != nil {
			return nil, err
		}
		return resultValue(f.LookupNode(callerID, nodeName)), nil
	}
	h["getPublishedTopics"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, err := str(p, 0)
		if err != nil {
			return nil, err
		}
		subgraph := ""
		if len(p) > 1 {
			subgraph, _ = p[1].(string)
		}
		return resultValue(f.GetPublishedTopics(callerID, subgraph)), nil
	}
	h["getTopicTypes"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, err := str(p, 0)
		if err != nil {
			return nil, err
		}
		return resultValue(f.GetTopicTypes(callerID)), nil
	}
	h["getSystemState"] = func(_ context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		callerID, err := str(p, 0)
		if err != nil {
			return nil, err
		}
		return resultValue(f.GetSystemState(callerID)), nil
	}
	h["system.multicall"] = func(ctx context.Context, p []xmlrpc.Value) (xmlrpc.Value, error) {
		return f.multicall(ctx, p, h)
	}
	return h
}

func str2(p []xmlrpc.Value) (string, string, error) {
	a, err := str(p, 0)
	if err != nil {
		return "", "", err
	}
	b, err := str(p, 1)
	if err != nil {
		return "", "", err
	}
	return a, b, nil
}

func str3(p []xmlrpc.Value) (string, string, string, error) {
	a, b, err := str2(p)
	if err != nil {
		return "", "", "", err
	}
	c, err := str(p, 2)
	if err != nil {
		return "", "", "", err
	}
	return a, b, c, nil
}

func str4(p []xmlrpc.Value) (string, string, string, string, error) {
	a, b, c, err := str3(p)
	if err != nil {
		return "", "", "", "", err
	}
	d, err := str(p, 3)
	if err != nil {
		return "", "", "", "", err
	}
	return a, b, c, d, nil
}

// multicall implements system.multicall(call_list): a sequence of
// {methodName, params} structs, evaluated strictly in input order and
// sharing nothing beyond the master's own state (§4.5, §9 "Supplemented
// Features"). Unlike every other master method, multicall itself takes no
// caller_id — each sub-call already carries its own caller_id as the first
// element of its params array, exactly as the node encoded it.
func (f *Facade) multicall(ctx context.Context, p []xmlrpc.Value, handlers map[string]xmlrpc.Method) (xmlrpc.Value, error) {
	calls, err := arg(p, 0)
	if err != nil {
		return nil, err
	}
	list, ok := calls.([]interface{})
	if !ok {
		return nil, fmt.Errorf("system.multicall: expected an array of calls")
	}

	log := contextx.Logger(ctx)
	results := make([]interface{}, 0, len(list))
	for _, item := range list {
		entry, ok := item.(map[string]interface{})
		if !ok {
			log.Warn("system.multicall: malformed entry", zap.String("request_id", contextx.RequestID(ctx)))
			results = append(results, resultValue(fail("malformed multicall entry", nil)))
			continue
		}
		methodName, _ := entry["methodName"].(string)
		var subParams []xmlrpc.Value
		if rawParams, ok := entry["params"].([]interface{}); ok {
			subParams = rawParams
		}
		method, ok := handlers[methodName]
		if !ok {
			log.Warn("system.multicall: unknown method", zap.String("method", methodName))
			results = append(results, resultValue(fail(fmt.Sprintf("unknown method %q", methodName), nil)))
			continue
		}
		res, err := method(ctx, subParams)
		if err != nil {
			log.Warn("system.multicall: sub-call failed", zap.String("method", methodName), zap.Error(err))
			results = append(results, resultValue(fail(err.Error(), nil)))
			continue
		}
		results = append(results, res)
	}
	return results, nil
}
