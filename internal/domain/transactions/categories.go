package transactions

// Category is one entry of the fixed per-type catalog. Categories are not a
// persisted entity; transactions reference them by ID.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

var expenseCategories = []Category{
	{ID: "condominio", Name: "Condomínio", Type: TypeExpense, Color: "#ef4444", Icon: "home"},
	{ID: "luz", Name: "Luz", Type: TypeExpense, Color: "#f59e0b", Icon: "bolt"},
	{ID: "telefone", Name: "Telefone/Internet", Type: TypeExpense, Color: "#8b5cf6", Icon: "phone"},
	{ID: "saude", Name: "Saúde", Type: TypeExpense, Color: "#ec4899", Icon: "heart"},
	{ID: "iptu", Name: "IPTU", Type: TypeExpense, Color: "#6366f1", Icon: "document"},
	{ID: "ipva", Name: "IPVA", Type: TypeExpense, Color: "#14b8a6", Icon: "car"},
	{ID: "cartao", Name: "Cartão de Crédito", Type: TypeExpense, Color: "#f97316", Icon: "credit-card"},
	{ID: "seguro", Name: "Seguro", Type: TypeExpense, Color: "#84cc16", Icon: "shield"},
	{ID: "educacao", Name: "Educação", Type: TypeExpense, Color: "#06b6d4", Icon: "book"},
	{ID: "assinatura", Name: "Assinaturas", Type: TypeExpense, Color: "#a855f7", Icon: "tag"},
	{ID: "outros", Name: "Outros", Type: TypeExpense, Color: "#64748b", Icon: "dots"},
}

var incomeCategories = []Category{
	{ID: "salario", Name: "Salário", Type: TypeIncome, Color: "#10b981", Icon: "banknotes"},
	{ID: "acordo", Name: "Acordo", Type: TypeIncome, Color: "#22c55e", Icon: "document-check"},
	{ID: "fgts", Name: "FGTS", Type: TypeIncome, Color: "#34d399", Icon: "building"},
	{ID: "cashback", Name: "Cashback", Type: TypeIncome, Color: "#4ade80", Icon: "arrow-path"},
	{ID: "outros_entrada", Name: "Outros", Type: TypeIncome, Color: "#6ee7b7", Icon: "plus"},
}

// Categories returns the catalog for one transaction type, or the whole
// catalog when txType is empty.
func Categories(txType string) []Category {
	switch txType {
	case TypeExpense:
		return append([]Category(nil), expenseCategories...)
	case TypeIncome:
		return append([]Category(nil), incomeCategories...)
	default:
		all := make([]Category, 0, len(expenseCategories)+len(incomeCategories))
		all = append(all, expenseCategories...)
		all = append(all, incomeCategories...)
		return all
	}
}

func isValidType(txType string) bool {
	return txType == TypeIncome || txType == TypeExpense
}

func isValidCategory(txType, categoryID string) bool {
	for _, category := range Categories(txType) {
		if category.ID == categoryID {
			return true
		}
	}
	return false
}
