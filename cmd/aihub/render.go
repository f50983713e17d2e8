package main

import (
	"fmt"
	"strings"

	"atomic-explorer/aihub/pkg/gateway"
	"atomic-explorer/aihub/pkg/providers"
)

// analysisView renders an analysis for terminal output.
type analysisView gateway.Analysis

func (a analysisView) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Reacts:      %t\n", a.Reacts)
	if a.Equation != "" {
		fmt.Fprintf(&sb, "Equation:    %s\n", a.Equation)
	}
	fmt.Fprintf(&sb, "Type:        %s\n", a.Type)
	fmt.Fprintf(&sb, "Danger:      %s\n", a.DangerLevel)
	fmt.Fprintf(&sb, "Visuals:     %s\n", a.Visuals)
	fmt.Fprintf(&sb, "Explanation: %s\n", a.Explanation)
	return sb.String()
}

// insightView renders an element insight for terminal output.
type insightView gateway.Insight

func (i insightView) String() string {
	return fmt.Sprintf("Fun fact: %s\nUses:     %s\n", i.FunFact, i.Uses)
}

// providerList renders the registry for terminal output.
type providerList struct {
	Providers     []providerEntry `json:"providers"`
	HasCredential bool            `json:"has_credential"`
}

type providerEntry struct {
	Rank int    `json:"rank"`
	ID   string `json:"id"`
}

func newProviderList(reg *providers.Registry, hasCredential bool) providerList {
	list := providerList{HasCredential: hasCredential, Providers: []providerEntry{}}
	for _, p := range reg.Providers() {
		list.Providers = append(list.Providers, providerEntry{Rank: p.Rank, ID: p.ID})
	}
	return list
}

func (l providerList) String() string {
	var sb strings.Builder
	for _, p := range l.Providers {
		fmt.Fprintf(&sb, "%2d  %s\n", p.Rank, p.ID)
	}
	if !l.HasCredential {
		sb.WriteString("\nwarning: no API key configured\n")
	}
	return sb.String()
}
