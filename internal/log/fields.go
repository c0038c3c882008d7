package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldID          = "id"
	FieldAccount     = "account"
	FieldFromAccount = "from_account"
	FieldToAccount   = "to_account"
	FieldCategory    = "category"
	FieldType        = "type"
	FieldDate        = "date"
	FieldAmount      = "amount"
	FieldVersion     = "version"
	FieldPath        = "path"
	FieldBackend     = "backend"
	FieldWarning     = "warning"
	FieldCount       = "count"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentLedger  = "ledger"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentCache   = "cache"
	ComponentReport  = "report"
	ComponentBackend = "backend"
	ComponentCLI     = "cli"
)

// Operations defines standard operation names
const (
	OpAddTransaction    = "add_transaction"
	OpEditTransaction   = "edit_transaction"
	OpDeleteTransaction = "delete_transaction"
	OpTransfer          = "transfer_funds"
	OpAddAccount        = "add_account"
	OpDeleteAccount     = "delete_account"
	OpAddCategory       = "add_category"
	OpDeleteCategory    = "delete_category"
	OpFilter            = "filter_transactions"
	OpSummarize         = "summarize"
	OpLoad              = "load"
	OpSave              = "save"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTransaction adds the identifying fields of a transaction
func (f LogFields) WithTransaction(id, account, typ, amount string) LogFields {
	f[FieldID] = id
	f[FieldAccount] = account
	f[FieldType] = typ
	f[FieldAmount] = amount
	return f
}

// WithVersion adds the ledger version
func (f LogFields) WithVersion(v uint64) LogFields {
	f[FieldVersion] = v
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
