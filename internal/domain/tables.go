package domain

// TableKey names one of the five business entity groups. The set is closed
// and known at compile time; there is no dynamic table discovery.
type TableKey string

const (
	TableCounty  TableKey = "county"
	TableInfra   TableKey = "infra"
	TableAgri    TableKey = "agri"
	TableEconomy TableKey = "economy"
	TableDemo    TableKey = "demo"
)

// AllTables returns the closed set of table keys in display order.
func AllTables() []TableKey {
	return []TableKey{TableCounty, TableInfra, TableAgri, TableEconomy, TableDemo}
}

// Valid reports whether the key is one of the closed set.
func (k TableKey) Valid() bool {
	_, ok := tableInfos[k]
	return ok
}

// Field describes one column of a business table. Field lists are fixed at
// compile time rather than discovered through reflection.
type Field struct {
	Name         string
	Type         string
	Nullable     bool
	PrimaryKey   bool
	RelatedTable string // physical table name for foreign keys, else empty
}

// TableInfo describes a business table: its key, the name shown to users,
// the physical table name in the store, and its column list.
type TableInfo struct {
	Key          TableKey
	DisplayName  string
	PhysicalName string
	Fields       []Field
}

// Info returns the static description of the table. The zero TableInfo is
// returned for unknown keys; callers should check Valid first.
func (k TableKey) Info() TableInfo {
	return tableInfos[k]
}

// DisplayName returns the human-readable name for the table key.
func (k TableKey) DisplayName() string {
	return tableInfos[k].DisplayName
}

// PhysicalName returns the underlying store table name.
func (k TableKey) PhysicalName() string {
	return tableInfos[k].PhysicalName
}

var tableInfos = map[TableKey]TableInfo{
	TableCounty: {
		Key:          TableCounty,
		DisplayName:  "County",
		PhysicalName: "core_county",
		Fields: []Field{
			{Name: "county_id", Type: "integer", PrimaryKey: true},
			{Name: "name", Type: "text"},
			{Name: "province", Type: "text"},
			{Name: "city", Type: "text", Nullable: true},
		},
	},
	TableInfra: {
		Key:          TableInfra,
		DisplayName:  "Infrastructure",
		PhysicalName: "core_infrastructureservice",
		Fields: []Field{
			{Name: "infra_id", Type: "integer", PrimaryKey: true},
			{Name: "county_id", Type: "integer", RelatedTable: "core_county"},
			{Name: "year", Type: "integer"},
			{Name: "pct_village_with_hard_road", Type: "decimal", Nullable: true},
			{Name: "pct_village_with_electricity", Type: "decimal", Nullable: true},
			{Name: "broadband_coverage", Type: "decimal", Nullable: true},
			{Name: "water_supply_coverage", Type: "decimal", Nullable: true},
			{Name: "sanitation_coverage", Type: "decimal", Nullable: true},
		},
	},
	TableAgri: {
		Key:          TableAgri,
		DisplayName:  "Agriculture Sales",
		PhysicalName: "core_agriculturesales",
		Fields: []Field{
			{Name: "sale_id", Type: "integer", PrimaryKey: true},
			{Name: "county_id", Type: "integer", RelatedTable: "core_county"},
			{Name: "year", Type: "integer"},
			{Name: "product_type", Type: "text", Nullable: true},
			{Name: "sales_volume", Type: "decimal", Nullable: true},
			{Name: "sales_value", Type: "decimal", Nullable: true},
		},
	},
	TableEconomy: {
		Key:          TableEconomy,
		DisplayName:  "Economy",
		PhysicalName: "core_countyeconomy",
		Fields: []Field{
			{Name: "econ_id", Type: "integer", PrimaryKey: true},
			{Name: "county_id", Type: "integer", RelatedTable: "core_county"},
			{Name: "year", Type: "integer"},
			{Name: "gdp_total", Type: "decimal", Nullable: true},
			{Name: "fiscal_revenue", Type: "decimal", Nullable: true},
			{Name: "per_capita_income", Type: "decimal", Nullable: true},
		},
	},
	TableDemo: {
		Key:          TableDemo,
		DisplayName:  "Demographics",
		PhysicalName: "core_countydemographics",
		Fields: []Field{
			{Name: "demo_id", Type: "integer", PrimaryKey: true},
			{Name: "county_id", Type: "integer", RelatedTable: "core_county"},
			{Name: "year", Type: "integer"},
			{Name: "population_total", Type: "integer", Nullable: true},
			{Name: "urbanization_rate", Type: "decimal", Nullable: true},
			{Name: "unemployment_rate", Type: "decimal", Nullable: true},
			{Name: "migrant_workers", Type: "integer", Nullable: true},
			{Name: "social_security_rate", Type: "decimal", Nullable: true},
		},
	},
}
