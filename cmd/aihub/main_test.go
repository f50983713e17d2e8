package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mock "atomic-explorer/aihub/internal/providers"
	"atomic-explorer/aihub/pkg/cli"
	"atomic-explorer/aihub/pkg/config"
	"atomic-explorer/aihub/pkg/gateway"
	"atomic-explorer/aihub/pkg/providers"
	"atomic-explorer/aihub/pkg/telemetry/logging"
)

// execute runs the root command with args and fresh flag values.
func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cfgFile, envFile, verbose, quiet = "", "", false, true
	chatFlags.interactive = false
	analyzeFlags.output = "text"
	insightFlags.output = "text"
	providersFlags.output = "text"
	validateFlags.requireKey = false
	serveFlags.dryRun = false
	serveFlags.listenAddress = ""

	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// writeConfig writes a config pointing the gateway at baseURL.
func writeConfig(t *testing.T, baseURL string, models ...string) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("gateway:\n")
	sb.WriteString("  base_url: " + baseURL + "\n")
	sb.WriteString("  attempt_timeout: 2s\n")
	sb.WriteString("  models:\n")
	for _, m := range models {
		sb.WriteString("    - " + m + "\n")
	}
	sb.WriteString("telemetry:\n  metrics:\n    enabled: false\n")

	path := filepath.Join(t.TempDir(), "aihub.yaml")
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func setKey(t *testing.T, key string) {
	t.Helper()
	for _, name := range config.APIKeyEnvVars {
		t.Setenv(name, "")
	}
	t.Setenv("AIHUB_API_KEY", key)
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "aihub "+Version) {
		t.Errorf("expected version line, got %q", out)
	}
	if !strings.Contains(out, "Go Version:") {
		t.Errorf("expected Go version, got %q", out)
	}
}

func TestValidateCommand(t *testing.T) {
	setKey(t, "sk-or-v1-testkey")
	path := writeConfig(t, "https://openrouter.ai/api/v1", "m1", "m2")

	out, _, err := execute(t, "", "validate", "--config", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Providers:  2") {
		t.Errorf("expected provider count, got %q", out)
	}
	if !strings.Contains(out, "API key:    configured") {
		t.Errorf("expected configured key, got %q", out)
	}
}

func TestValidateCommand_RequireKey(t *testing.T) {
	setKey(t, "")
	path := writeConfig(t, "https://openrouter.ai/api/v1", "m1")

	_, _, err := execute(t, "", "validate", "--config", path, "--require-key")
	if err == nil {
		t.Fatal("expected error without API key")
	}
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("expected exit code %d, got %d", cli.ExitConfig, cli.ExitCode(err))
	}
}

func TestValidateCommand_InvalidConfig(t *testing.T) {
	setKey(t, "sk-or-v1-testkey")
	path := writeConfig(t, "not a url", "m1")

	_, _, err := execute(t, "", "validate", "--config", path)
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("expected config exit code, got %v", err)
	}
}

func TestProvidersCommand_JSON(t *testing.T) {
	setKey(t, "sk-or-v1-testkey")
	path := writeConfig(t, "https://openrouter.ai/api/v1", "m1", "m2", "m3")

	out, _, err := execute(t, "", "providers", "--config", path, "--output", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var list providerList
	if err := json.Unmarshal([]byte(out), &list); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(list.Providers) != 3 || list.Providers[2].ID != "m3" || list.Providers[2].Rank != 2 {
		t.Errorf("unexpected providers: %+v", list.Providers)
	}
	if !list.HasCredential {
		t.Error("expected credential to be reported")
	}
}

func TestChatCommand(t *testing.T) {
	server := mock.NewMockServer()
	defer server.Close()
	server.SetResponse("m1", mock.MockRateLimitError())
	server.SetResponse("m2", mock.MockSuccess("Helium has a full shell."))

	setKey(t, "sk-or-v1-testkey")
	path := writeConfig(t, server.URL(), "m1", "m2")

	out, _, err := execute(t, "", "chat", "--config", path, "Why", "is", "helium", "inert?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "Helium has a full shell." {
		t.Errorf("unexpected reply %q", out)
	}
	mock.AssertModels(t, server.Models(), []string{"m1", "m2"})
}

func TestChatCommand_FallbackOnExhaustion(t *testing.T) {
	server := mock.NewMockServer()
	defer server.Close()
	server.SetDefault(mock.MockServerError())

	setKey(t, "sk-or-v1-testkey")
	path := writeConfig(t, server.URL(), "m1", "m2")

	out, _, err := execute(t, "", "chat", "--config", path, "Hi")
	if err == nil {
		t.Fatal("expected error when every provider fails")
	}
	if cli.ExitCode(err) != cli.ExitFailure {
		t.Errorf("expected exit code %d, got %d", cli.ExitFailure, cli.ExitCode(err))
	}
	if strings.TrimSpace(out) != gateway.ChatFallbackReply {
		t.Errorf("expected fallback reply, got %q", out)
	}
}

func TestChatCommand_MissingKey(t *testing.T) {
	server := mock.NewMockServer()
	defer server.Close()

	setKey(t, "")
	path := writeConfig(t, server.URL(), "m1")

	_, _, err := execute(t, "", "chat", "--config", path, "Hi")
	if cli.ExitCode(err) != cli.ExitConfig {
		t.Errorf("expected config exit code, got %v", err)
	}
	if server.GetRequestCount() != 0 {
		t.Errorf("expected no requests, got %d", server.GetRequestCount())
	}
}

func TestChatCommand_RequiresMessage(t *testing.T) {
	if _, _, err := execute(t, "", "chat"); err == nil {
		t.Error("expected error without a message")
	}
}

func TestChatCommand_Interactive(t *testing.T) {
	server := mock.NewMockServer()
	defer server.Close()
	server.SetDefault(mock.MockSuccess("Noted."))

	setKey(t, "sk-or-v1-testkey")
	path := writeConfig(t, server.URL(), "m1")

	out, _, err := execute(t, "First question\n\nSecond question\nexit\n", "chat", "--config", path, "--interactive")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Count(out, "Noted.") != 2 {
		t.Errorf("expected two replies, got %q", out)
	}

	reqs := server.Requests()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(reqs))
	}
	msgs := reqs[1].Body.Messages
	if len(msgs) != 3 {
		t.Fatalf("expected history plus new message, got %d messages", len(msgs))
	}
	if msgs[1].Role != providers.RoleAssistant || msgs[1].Content != "Noted." {
		t.Errorf("expected assistant turn in history, got %+v", msgs[1])
	}
	if msgs[2].Content != "Second question" {
		t.Errorf("expected new message last, got %q", msgs[2].Content)
	}
}

func TestAnalyzeCommand(t *testing.T) {
	server := mock.NewMockServer()
	defer server.Close()
	server.SetDefault(mock.MockSuccess("Sure! ```json\n" +
		`{"reacts":true,"equation":null,"visuals":"fizz","explanation":"acid-base","dangerLevel":"Low","type":"neutralization"}` +
		"\n```"))

	setKey(t, "sk-or-v1-testkey")
	path := writeConfig(t, server.URL(), "m1")

	out, _, err := execute(t, "", "analyze", "--config", path, "HCl", "NaOH", "--output", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got gateway.Analysis
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if !got.Reacts || got.Type != "neutralization" || got.Equation != "" {
		t.Errorf("unexpected analysis: %+v", got)
	}
}

func TestAnalyzeCommand_TextFallback(t *testing.T) {
	server := mock.NewMockServer()
	defer server.Close()
	server.SetDefault(mock.MockSuccess("no json here"))

	setKey(t, "sk-or-v1-testkey")
	path := writeConfig(t, server.URL(), "m1")

	out, _, err := execute(t, "", "analyze", "--config", path, "Au", "Ar")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Visuals:     Glitch") {
		t.Errorf("expected fallback analysis, got %q", out)
	}
}

func TestInsightCommand(t *testing.T) {
	server := mock.NewMockServer()
	defer server.Close()
	server.SetDefault(mock.MockSuccess(`{"funFact":"Xenon glows blue.","uses":"Lamps, Anesthesia"}`))

	setKey(t, "sk-or-v1-testkey")
	path := writeConfig(t, server.URL(), "m1")

	out, _, err := execute(t, "", "insight", "--config", path, "Xenon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Fun fact: Xenon glows blue.") || !strings.Contains(out, "Uses:     Lamps, Anesthesia") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestServeCommand_DryRun(t *testing.T) {
	setKey(t, "sk-or-v1-testkey")
	path := writeConfig(t, "https://openrouter.ai/api/v1", "m1")

	out, _, err := execute(t, "", "serve", "--config", path, "--dry-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Configuration valid") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestReloadGateway(t *testing.T) {
	first := gateway.New(gateway.Options{Registry: providers.MustRegistry("m1")})
	holder := gateway.NewHolder(first)

	next := config.Default()
	next.Gateway.Models = []string{"m1", "m2"}
	next.Gateway.APIKey = "sk-or-v1-testkey"

	if !reloadGateway(holder, next, nil, logging.Nop()) {
		t.Fatal("expected reload to succeed")
	}
	if holder.Load().Registry().Len() != 2 || !holder.Load().HasCredential() {
		t.Error("expected the new gateway to be published")
	}

	bad := config.Default()
	bad.Gateway.Models = []string{"m1", "m1"}
	if reloadGateway(holder, bad, nil, logging.Nop()) {
		t.Error("expected reload with duplicate models to fail")
	}
	if holder.Load().Registry().Len() != 2 {
		t.Error("expected previous gateway to stay in place")
	}
}
