// Command aihub is the AI gateway behind Atomic Explorer.
//
// It sends chat, reaction analysis and element insight requests to a ranked
// list of OpenAI-compatible models, failing over from one model to the next
// until one answers.
//
// Usage:
//
//	# Serve the HTTP API
//	aihub serve --config aihub.yaml
//
//	# One-off chat
//	aihub chat "Why is helium inert?"
//
//	# Interactive chat session
//	aihub chat --interactive
//
//	# Reaction analysis as JSON
//	aihub analyze Na Cl --output json
//
//	# Element insight
//	aihub insight Gold
//
//	# Show the provider chain and validate configuration
//	aihub providers
//	aihub validate
package main

func main() {
	Execute()
}
