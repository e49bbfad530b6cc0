package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hirosato/prestacao-contas/backend/internal/common/config"
	"github.com/hirosato/prestacao-contas/backend/internal/common/utils"
)

// execute runs the root command with args and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "prestacao", cmd.Use)

	for _, name := range []string{"totals", "export", "token"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestTotalsCommand_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	tests := []struct {
		name string
		file string
	}{
		{"totals", "testdata/case.yaml"},
		{"totals_unknown_role", "testdata/unknown_role.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "totals", tt.file)
			require.NoError(t, err)
			g.Assert(t, tt.name, []byte(out))
		})
	}
}

func TestTotalsCommand_JSON(t *testing.T) {
	out, err := execute(t, "totals", "testdata/case.yaml", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   TotalsOutput `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "R-2024-001", resp.Data.RecordID)
	assert.Equal(t, "Assessor", resp.Data.Role)
	assert.Equal(t, "502.50", resp.Data.Totals.GrandTotal.Value)
	assert.Equal(t, "2.50", resp.Data.Totals.Difference.Value)
	assert.Equal(t, "50.00", resp.Data.TicketSummary.AmountToReturn.Value)
}

func TestTotalsCommand_Errors(t *testing.T) {
	t.Run("invalid format", func(t *testing.T) {
		_, err := execute(t, "totals", "testdata/case.yaml", "--format", "xml")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := execute(t, "totals", "testdata/nope.yaml")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})

	t.Run("bad amount", func(t *testing.T) {
		_, err := execute(t, "totals", "testdata/bad_amount.yaml")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, err.Error(), "advances[0].amount")
	})
}

func TestParseCase(t *testing.T) {
	t.Run("duplicate advance category", func(t *testing.T) {
		_, err := ParseCase([]byte(`
servant: {name: Ana, role: X}
advances:
  - {category: per_diem, amount: "1"}
  - {category: per_diem, amount: "2"}
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "only one per_diem advance")
	})

	t.Run("servant is required", func(t *testing.T) {
		_, err := ParseCase([]byte(`record_id: R1`))
		assert.Error(t, err)
	})

	t.Run("bad ticket direction", func(t *testing.T) {
		_, err := ParseCase([]byte(`
servant: {name: Ana}
tickets:
  - {ticket: B1, amount: "1", direction: sideways}
`))
		assert.Error(t, err)
	})

	t.Run("negative count", func(t *testing.T) {
		_, err := ParseCase([]byte(`
servant: {name: Ana}
daily_count: {days_in_state: -1}
`))
		assert.Error(t, err)
	})

	t.Run("role name defaults to the servant's", func(t *testing.T) {
		c, err := ParseCase([]byte(`
servant: {name: Ana, role: Assessor}
role: {rate_in_state: "10", rate_out_of_state: "20"}
`))
		require.NoError(t, err)
		assert.Equal(t, "case", c.RecordID())
		r, err := c.GetRoleByName(context.Background(), "Assessor")
		require.NoError(t, err)
		assert.Equal(t, "20", r.RateOutOfState.String())
	})
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()

	t.Run("per diem workbook", func(t *testing.T) {
		path := filepath.Join(dir, "per_diem.xlsx")
		out, err := execute(t, "export", "testdata/case.yaml", "--output", path)
		require.NoError(t, err)
		assert.Equal(t, "wrote "+path+"\n", out)

		f, err := excelize.OpenFile(path)
		require.NoError(t, err)
		defer f.Close()
		assert.Contains(t, f.GetSheetList(), "Resumo")
	})

	t.Run("opinion as json", func(t *testing.T) {
		path := filepath.Join(dir, "nested", "opinion.xlsx")
		out, err := execute(t, "export", "testdata/case.yaml", "--kind", "opinion", "-o", path, "--format", "json")
		require.NoError(t, err)

		var resp struct {
			Data ExportOutput `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, path, resp.Data.File)
		assert.EqualValues(t, "opinion", resp.Data.Kind)
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("opinion without president", func(t *testing.T) {
		_, err := execute(t, "export", "testdata/unknown_role.yaml", "--kind", "opinion", "-o", filepath.Join(dir, "x.xlsx"))
		assert.Error(t, err)
	})

	t.Run("invalid kind", func(t *testing.T) {
		_, err := execute(t, "export", "testdata/case.yaml", "--kind", "invoice")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestTokenCommand(t *testing.T) {
	secret := "test-signing-secret"

	t.Run("signs a verifiable token", func(t *testing.T) {
		out, err := execute(t, "token", "--subject", "ops", "--name", "Operator",
			"--scope", utils.ScopeRead+","+utils.ScopeWrite, "--secret", secret)
		require.NoError(t, err)

		claims, err := utils.ParseJWT(strings.TrimSpace(out), []byte(secret), config.DefaultAuthIssuer)
		require.NoError(t, err)
		assert.Equal(t, "ops", claims.Subject)
		assert.Equal(t, "Operator", claims.Name)
		assert.True(t, utils.HasScope(claims, utils.ScopeWrite))
	})

	t.Run("secret from environment", func(t *testing.T) {
		t.Setenv(SecretEnvVar, secret)
		out, err := execute(t, "token", "--subject", "ops", "--format", "json")
		require.NoError(t, err)

		var resp struct {
			Data TokenOutput `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		claims, err := utils.ParseJWT(resp.Data.Token, []byte(secret), config.DefaultAuthIssuer)
		require.NoError(t, err)
		assert.False(t, utils.HasScope(claims, utils.ScopeWrite))
	})

	t.Run("subject is required", func(t *testing.T) {
		_, err := execute(t, "token", "--secret", secret)
		assert.Error(t, err)
	})

	t.Run("no secret", func(t *testing.T) {
		t.Setenv(SecretEnvVar, "")
		_, err := execute(t, "token", "--subject", "ops")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}
