package constants

type (
	APIStatus string
)

const (
	APIStatusError APIStatus = "error"
)
