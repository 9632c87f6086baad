// Package relay implements the inference forwarding path.
//
// A Relay reads a raw request body, checks that it is JSON, posts it to the
// backend and returns a Result:
//
//	result := r.Forward(ctx, req.Body)
//	switch result.Kind {
//	case relay.KindSuccess, relay.KindBackendError:
//		// write result.StatusCode and result.Body
//	case relay.KindTransportFailure:
//		// write {"error": result.Message}
//	}
//
// Each Forward call increments inference_requests_total with the result's
// outcome label and observes inference_latency_ms once.
package relay
