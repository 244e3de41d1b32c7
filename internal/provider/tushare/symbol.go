package tushare

import (
	"fmt"

	"futures-data/internal/model"
)

// venueSuffix maps exchanges to tushare ts_code suffixes.
var venueSuffix = map[model.Venue]string{
	model.SHFE:  "SHF",
	model.DCE:   "DCE",
	model.CZCE:  "ZCE",
	model.INE:   "INE",
	model.CFFEX: "CFX",
	model.GFEX:  "GFE",
}

// TSCode returns the tushare code for an instrument, e.g. RB.SHF or CF.ZCE.
func TSCode(inst model.Instrument) (string, error) {
	suffix, ok := venueSuffix[inst.Venue]
	if !ok {
		return "", fmt.Errorf("tushare: no code suffix for venue %s", inst.Venue)
	}
	return inst.Code + "." + suffix, nil
}
