// Package gateway is the public face of the AI hub: chat completion,
// structured reaction analysis and element insights on top of ranked
// provider failover.
//
//	gw, err := gateway.NewFromConfig(&cfg.Gateway, tel)
//	if err != nil {
//		return err
//	}
//	defer gw.Close()
//
//	reply, err := gw.ChatCompletion(ctx, "What is sodium?", nil)
//	if err != nil {
//		reply = gateway.ChatFallbackReply
//	}
//
//	analysis := gw.StructuredAnalysis(ctx, "Sodium", "Chlorine")
//
// ChatCompletion returns errors to its caller. StructuredAnalysis and
// ElementInsight never fail: any problem yields a fixed fallback record with
// every field populated.
//
// Provider replies for structured operations are free text. RepairAnalysis and
// RepairInsight strip code fences and decode the first JSON object found.
package gateway
