package types

// ConsoleInterface define a interface para saída no console.
type ConsoleInterface interface {
	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})

	Status(message string) StatusHandle

	CreateTable() TableInterface
	PrintTable(table TableInterface)
	DisplayTrendBars(points []TrendPoint)
}

// StatusHandle é uma interface para atualizar uma mensagem de status.
type StatusHandle interface {
	Update(message string)
	Stop()
}

// TableInterface define a interface para criar e manipular tabelas.
type TableInterface interface {
	AddColumn(name string, options ...interface{})
	AddRow(cells ...interface{})
	Render() string
}

// TrendPoint representa o valor de um mês no gráfico de tendência.
type TrendPoint struct {
	Month     string  `json:"month"`
	Value     float64 `json:"value"`
	Predicted bool    `json:"predicted"`
}
