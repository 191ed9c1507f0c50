package render

import "strings"

// ServiceMeta describes a cloud service badge.
type ServiceMeta struct {
	Label string
	Desc  string
	Icon  string
}

// Services maps badge keys to their metadata. Icons are hot-linked.
var Services = map[string]ServiceMeta{
	"adls": {
		Label: "ADLS",
		Desc:  "Azure Data Lake Storage Gen2",
		Icon:  "https://az-icons.com/api/icon/storage-accounts/download?format=png",
	},
	"adf": {
		Label: "ADF",
		Desc:  "Azure Data Factory",
		Icon:  "https://az-icons.com/api/icon/data-factories/download?format=png",
	},
	"databricks": {
		Label: "Databricks",
		Desc:  "Azure Databricks",
		Icon:  "https://az-icons.com/api/icon/azure-databricks/download?format=png",
	},
	"synapse": {
		Label: "Synapse",
		Desc:  "Azure Synapse Analytics",
		Icon:  "https://az-icons.com/api/icon/azure-synapse-analytics/download?format=png",
	},
	"api": {
		Label: "API",
		Desc:  "API integration (APIs / API Management)",
		Icon:  "https://az-icons.com/api/icon/api-management-services/download?format=png",
	},
	"sql": {
		Label: "SQL",
		Desc:  "SQL (SQL Server / Azure SQL)",
		Icon:  "https://az-icons.com/api/icon/sql-database/download?format=png",
	},
	"powerbi": {
		Label: "Power BI",
		Desc:  "Power BI (reporting / dashboards)",
		Icon:  "https://az-icons.com/api/icon/power-bi-embedded/download?format=png",
	},
}

// ServicePills renders the badge row for keys in order. Unknown keys are
// skipped; the result is empty when nothing is known.
func ServicePills(keys []string) Fragment {
	var b Builder
	for _, k := range keys {
		m, ok := Services[strings.ToLower(strings.TrimSpace(k))]
		if !ok {
			continue
		}
		label := m.Label
		if label == "" {
			label = strings.ToUpper(k)
		}
		desc := m.Desc
		if desc == "" {
			desc = label
		}
		b.Open("span", A("class", "svc"), A("title", desc), A("aria-label", desc))
		b.Void("img", A("class", "svc-ico"), A("src", m.Icon), A("alt", label+" icon"), A("loading", "lazy"))
		b.Element("span", label, A("class", "svc-txt"))
		b.Close("span")
	}
	return b.Build()
}
