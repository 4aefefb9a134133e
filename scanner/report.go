package scanner

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/xdarkicex/zephyr/patterns"
)

var (
	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	warningStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
)

// FormatScanReport renders a plain-text report for result against
// moduleName: a Summary line, a trusted-allowlist note when applied, then
// a section each for CRITICAL, WARNINGS, CREDENTIAL ACCESS, and REVERSE
// SHELLS when non-empty.
func FormatScanReport(result *Result, moduleName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Summary: %s — %d critical, %d warning, %d info\n",
		moduleName, result.CriticalCount, result.WarningCount, result.InfoCount)

	if result.TrustedModuleApplied {
		b.WriteString("Trusted module allowlist applied.\n")
	}

	var criticalGeneric, warningGeneric []Finding
	for _, f := range result.Findings {
		if f.Severity == patterns.Critical {
			criticalGeneric = append(criticalGeneric, f)
		} else if f.Severity == patterns.Warning {
			warningGeneric = append(warningGeneric, f)
		}
	}

	if len(criticalGeneric) > 0 {
		b.WriteString("\n" + criticalStyle.Render("CRITICAL") + "\n")
		for _, f := range criticalGeneric {
			writeFinding(&b, f)
		}
	}

	if len(warningGeneric) > 0 {
		b.WriteString("\n" + warningStyle.Render("WARNINGS") + "\n")
		for _, f := range warningGeneric {
			writeFinding(&b, f)
		}
	}

	if len(result.Credentials) > 0 {
		b.WriteString("\n" + headerStyle.Render("CREDENTIAL ACCESS") + "\n")
		for _, c := range result.Credentials {
			writeFinding(&b, c.Finding)
		}
	}

	if len(result.ReverseShells) > 0 {
		b.WriteString("\n" + criticalStyle.Render("REVERSE SHELLS") + "\n")
		for _, r := range result.ReverseShells {
			writeFinding(&b, r.Finding)
		}
	}

	return b.String()
}

func writeFinding(b *strings.Builder, f Finding) {
	fmt.Fprintf(b, "Pattern: %s\n  %s:%d: %s\n", f.Pattern, f.File, f.Line, f.Text)
}

type jsonReport struct {
	Module               string `json:"module"`
	CriticalCount        int    `json:"critical_count"`
	WarningCount         int    `json:"warning_count"`
	InfoCount            int    `json:"info_count"`
	TrustedModuleApplied bool   `json:"trusted_module_applied"`
	Findings             []Finding             `json:"findings"`
	Credentials          []CredentialFinding   `json:"credentials"`
	ReverseShells        []ReverseShellFinding `json:"reverse_shells"`
	Success              bool   `json:"success"`
	Error                string `json:"error,omitempty"`
}

// FormatScanReportJSON mirrors FormatScanReport as a JSON document with
// numeric counts and a trusted_module_applied boolean.
func FormatScanReportJSON(result *Result, moduleName string) (string, error) {
	rep := jsonReport{
		Module:               moduleName,
		CriticalCount:        result.CriticalCount,
		WarningCount:         result.WarningCount,
		InfoCount:            result.InfoCount,
		TrustedModuleApplied: result.TrustedModuleApplied,
		Findings:             result.Findings,
		Credentials:          result.Credentials,
		ReverseShells:        result.ReverseShells,
		Success:              result.Success,
		Error:                result.Error,
	}
	out, err := json.Marshal(rep)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
