package worldbank

import (
	"macropanel/domain/core"
	"macropanel/domain/panel"
)

// World Bank WDI series codes for the six acquired indicators.
const (
	CodeGDPGrowth        core.IndicatorCode = "NY.GDP.MKTP.KD.ZG"
	CodeGNIPerCapita     core.IndicatorCode = "NY.GNP.PCAP.CD"
	CodeExportsGDP       core.IndicatorCode = "NE.EXP.GNFS.ZS"
	CodeCapitalFormation core.IndicatorCode = "NE.GDI.TOTL.ZS"
	CodeCPI              core.IndicatorCode = "FP.CPI.TOTL"
	CodeUnemployment     core.IndicatorCode = "SL.UEM.TOTL.ZS"
)

// Indicators maps each acquired series code to its analysis field, in a
// stable fetch order.
func Indicators() []core.IndicatorCode {
	return []core.IndicatorCode{
		CodeGDPGrowth,
		CodeGNIPerCapita,
		CodeExportsGDP,
		CodeCapitalFormation,
		CodeCPI,
		CodeUnemployment,
	}
}

var fieldByIndicator = map[core.IndicatorCode]core.FieldKey{
	CodeGDPGrowth:        panel.KeyGDPGrowth,
	CodeGNIPerCapita:     panel.KeyGNIPerCapita,
	CodeExportsGDP:       panel.KeyExportsGDP,
	CodeCapitalFormation: panel.KeyCapitalFormation,
	CodeCPI:              panel.KeyCPI,
	CodeUnemployment:     panel.KeyUnemployment,
}

func setField(o *panel.Observation, key core.FieldKey, v float64) {
	switch key {
	case panel.KeyGDPGrowth:
		o.GDPGrowth = v
	case panel.KeyGNIPerCapita:
		o.GNIPerCapita = v
	case panel.KeyExportsGDP:
		o.ExportsGDP = v
	case panel.KeyCapitalFormation:
		o.CapitalFormation = v
	case panel.KeyCPI:
		o.CPI = v
	case panel.KeyUnemployment:
		o.Unemployment = v
	}
}
