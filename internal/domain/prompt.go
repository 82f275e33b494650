package domain

import (
	"strings"
	"time"
)

// Placeholders the user prompt template must contain.
const (
	PlaceholderSchema   = "{table_schema}"
	PlaceholderQuestion = "{question}"
)

// PromptConfig is the singleton configuration for the text-to-SQL generator.
// Exactly one instance logically exists; it is read on every generation
// request so edits take effect immediately.
type PromptConfig struct {
	TableSchema        string
	SystemPrompt       string
	UserPromptTemplate string
	UpdatedAt          time.Time
	UpdatedBy          string
}

// Validate checks that the config is usable by the generator.
func (c *PromptConfig) Validate() error {
	if strings.TrimSpace(c.UserPromptTemplate) == "" {
		return ErrValidation("user prompt template is required")
	}
	if !strings.Contains(c.UserPromptTemplate, PlaceholderSchema) {
		return ErrValidation("user prompt template must contain %s", PlaceholderSchema)
	}
	if !strings.Contains(c.UserPromptTemplate, PlaceholderQuestion) {
		return ErrValidation("user prompt template must contain %s", PlaceholderQuestion)
	}
	return nil
}

// DefaultPromptConfig returns the built-in prompt configuration used when no
// record exists yet.
func DefaultPromptConfig() *PromptConfig {
	return &PromptConfig{
		TableSchema:        defaultTableSchema,
		SystemPrompt:       "You are a professional SQL assistant.",
		UserPromptTemplate: defaultUserPromptTemplate,
	}
}

const defaultTableSchema = `You are querying a SQLite database with the following tables:

1. core_county:
- county_id (int, PK)
- name (varchar)
- province (varchar)
- city (varchar, nullable)

2. core_infrastructureservice:
- infra_id (int, PK)
- county_id (FK -> core_county)
- year (int)
- pct_village_with_hard_road
- pct_village_with_electricity
- broadband_coverage
- water_supply_coverage
- sanitation_coverage

3. core_agriculturesales:
- sale_id (int, PK)
- county_id (FK -> core_county)
- year (int)
- product_type
- sales_volume
- sales_value

4. core_countyeconomy:
- econ_id (int, PK)
- county_id (FK -> core_county)
- year (int)
- gdp_total
- fiscal_revenue
- per_capita_income

5. core_countydemographics:
- demo_id (int, PK)
- county_id (FK -> core_county)
- year (int)
- population_total
- urbanization_rate
- unemployment_rate
- migrant_workers
- social_security_rate

Notes:
- Always use the real table names shown above, e.g. core_county.
- SQLite does not support ILIKE.
- Emit exactly one SQL statement.`

const defaultUserPromptTemplate = `You are a SQL assistant. Generate a correct SQL query strictly from the
database structure below.

{table_schema}

The user's question is:
[{question}]

Output:
1. One executable SQL query (SQL only on that line, no prose)
2. A short natural-language explanation of the result

Required format:

SQL:
<your SQL>

Explanation:
<your explanation>`
