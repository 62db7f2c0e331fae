package console

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pterm/pterm"

	"github.com/diillson/revenue-forecast-go/internal/shared/types"
)

// Console é uma implementação do ConsoleInterface que escreve em stderr,
// deixando stdout livre para o documento JSON.
type Console struct {
	out   io.Writer
	quiet bool
}

// NewConsole cria um novo Console. Com quiet, nada é impresso.
func NewConsole(out io.Writer, quiet bool) *Console {
	if out == nil {
		out = os.Stderr
	}
	pterm.SetDefaultOutput(out)
	return &Console{out: out, quiet: quiet}
}

// Cores predefinidas para uso consistente
var (
	BrightGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
	BrightCyan  = color.New(color.FgCyan, color.Bold).SprintFunc()
)

// LogInfo registra uma mensagem de informação.
func (c *Console) LogInfo(format string, a ...interface{}) {
	if c.quiet {
		return
	}
	pterm.Info.Printfln(format, a...)
}

// LogWarning registra uma mensagem de aviso.
func (c *Console) LogWarning(format string, a ...interface{}) {
	if c.quiet {
		return
	}
	pterm.Warning.Printfln(format, a...)
}

// LogError registra uma mensagem de erro.
func (c *Console) LogError(format string, a ...interface{}) {
	if c.quiet {
		return
	}
	pterm.Error.Printfln(format, a...)
}

// LogSuccess registra uma mensagem de sucesso.
func (c *Console) LogSuccess(format string, a ...interface{}) {
	if c.quiet {
		return
	}
	pterm.Success.Printfln(format, a...)
}

// statusHandle é uma implementação do StatusHandle.
type statusHandle struct {
	spinner *pterm.SpinnerPrinter
}

// Status cria um spinner de status com a mensagem especificada.
func (c *Console) Status(message string) types.StatusHandle {
	if c.quiet {
		return &statusHandle{}
	}
	spinner, _ := pterm.DefaultSpinner.WithWriter(c.out).WithRemoveWhenDone(true).Start(message)
	return &statusHandle{spinner: spinner}
}

// Update atualiza a mensagem de status.
func (h *statusHandle) Update(message string) {
	if h.spinner != nil {
		h.spinner.UpdateText(message)
	}
}

// Stop pára o spinner de status.
func (h *statusHandle) Stop() {
	if h.spinner != nil {
		_ = h.spinner.Stop()
	}
}

// Table é uma implementação do TableInterface.
type Table struct {
	columns []string
	rows    [][]string
}

// CreateTable cria uma nova tabela.
func (c *Console) CreateTable() types.TableInterface {
	return &Table{
		columns: []string{},
		rows:    [][]string{},
	}
}

// PrintTable imprime uma tabela renderizada.
func (c *Console) PrintTable(table types.TableInterface) {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out, table.Render())
}

// AddColumn adiciona uma coluna à tabela.
func (t *Table) AddColumn(name string, options ...interface{}) {
	t.columns = append(t.columns, name)
}

// AddRow adiciona uma linha à tabela.
func (t *Table) AddRow(cells ...interface{}) {
	processedCells := make([]string, len(cells))
	for i, cell := range cells {
		processedCells[i] = fmt.Sprint(cell)
	}
	t.rows = append(t.rows, processedCells)
}

// Render renderiza a tabela como uma string.
func (t *Table) Render() string {
	tableData := pterm.TableData{t.columns}
	for _, row := range t.rows {
		tableData = append(tableData, row)
	}

	table := pterm.DefaultTable.
		WithHasHeader().
		WithBoxed().
		WithHeaderStyle(pterm.NewStyle(pterm.FgLightCyan)).
		WithData(tableData)

	renderedTable, _ := table.Srender()
	return renderedTable
}

// DisplayTrendBars exibe o histórico e a previsão como barras.
func (c *Console) DisplayTrendBars(points []types.TrendPoint) {
	if c.quiet {
		return
	}
	fmt.Fprintln(c.out, "\n"+RenderTrendBars(points))
}

// RenderTrendBars monta o painel de barras. Meses previstos aparecem em
// amarelo; a variação é calculada mês a mês.
func RenderTrendBars(points []types.TrendPoint) string {
	maxValue := 0.0
	for _, p := range points {
		if p.Value > maxValue {
			maxValue = p.Value
		}
	}

	if maxValue == 0 {
		return pterm.Warning.Sprint("All revenue values are $0.00 for this period")
	}

	tableData := pterm.TableData{
		{"Month", "Revenue", "", "MoM Change"},
	}

	var prev *float64
	for _, p := range points {
		barLength := int((p.Value / maxValue) * 40)
		bar := strings.Repeat("█", barLength)

		barColor := pterm.FgBlue.Sprint(bar)
		if p.Predicted {
			barColor = pterm.FgYellow.Sprint(bar)
		}

		change := ""
		if prev != nil {
			change = formatChange(*prev, p.Value)
		}

		month := p.Month
		if p.Predicted {
			month += " *"
		}
		tableData = append(tableData, []string{
			month,
			fmt.Sprintf("$%.2f", p.Value),
			barColor,
			change,
		})

		current := p.Value
		prev = &current
	}

	table := pterm.DefaultTable.WithHasHeader().WithData(tableData)
	renderedTable, _ := table.Srender()

	return pterm.DefaultBox.
		WithTitle("Revenue Trend (* = predicted)").
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan)).
		Sprint(renderedTable)
}

func formatChange(prev, current float64) string {
	if prev < 0.01 {
		if current < 0.01 {
			return pterm.FgYellow.Sprint("0%")
		}
		return pterm.FgGreen.Sprint("N/A")
	}

	changePercent := ((current - prev) / prev) * 100.0
	switch {
	case math.Abs(changePercent) < 0.01:
		return pterm.FgYellow.Sprint("0%")
	case changePercent > 999:
		return pterm.FgGreen.Sprint(">+999%")
	case changePercent < -999:
		return pterm.FgRed.Sprint(">-999%")
	case changePercent > 0:
		return pterm.FgGreen.Sprintf("+%.2f%%", changePercent)
	default:
		return pterm.FgRed.Sprintf("%.2f%%", changePercent)
	}
}
