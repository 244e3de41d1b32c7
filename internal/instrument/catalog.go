package instrument

import (
	"futures-data/internal/model"
)

type entry struct {
	name    string
	code    string
	venue   model.Venue
	listing string
}

// Listing dates are the first trading day of each product's main contract.
var catalog = []entry{
	{"螺纹钢", "RB", model.SHFE, "20090327"},
	{"热轧卷板", "HC", model.SHFE, "20140321"},
	{"铜", "CU", model.SHFE, "19950417"},
	{"铝", "AL", model.SHFE, "19920513"},
	{"锌", "ZN", model.SHFE, "20070326"},
	{"铅", "PB", model.SHFE, "20110324"},
	{"锡", "SN", model.SHFE, "20151119"},
	{"黄金", "AU", model.SHFE, "20080109"},
	{"白银", "AG", model.SHFE, "20120510"},
	{"沥青", "BU", model.SHFE, "20131009"},
	{"天然橡胶", "RU", model.SHFE, "19950516"},
	{"纸浆", "SP", model.SHFE, "20181127"},
	{"不锈钢", "SS", model.SHFE, "20191225"},
	{"原油", "SC", model.INE, "20180326"},
	{"低硫燃料油", "LU", model.INE, "20200616"},
	{"豆一", "A", model.DCE, "19990104"},
	{"豆粕", "M", model.DCE, "20000717"},
	{"豆油", "Y", model.DCE, "20060109"},
	{"棕榈油", "P", model.DCE, "20071029"},
	{"玉米", "C", model.DCE, "20040922"},
	{"玉米淀粉", "CS", model.DCE, "20141219"},
	{"鸡蛋", "JD", model.DCE, "20131108"},
	{"生猪", "LH", model.DCE, "20210108"},
	{"铁矿石", "I", model.DCE, "20131018"},
	{"焦炭", "J", model.DCE, "20110415"},
	{"焦煤", "JM", model.DCE, "20130322"},
	{"聚乙烯", "L", model.DCE, "20070731"},
	{"聚氯乙烯", "V", model.DCE, "20090525"},
	{"聚丙烯", "PP", model.DCE, "20140228"},
	{"乙二醇", "EG", model.DCE, "20181210"},
	{"苯乙烯", "EB", model.DCE, "20190926"},
	{"棉花", "CF", model.CZCE, "20040601"},
	{"白糖", "SR", model.CZCE, "20060106"},
	{"PTA", "TA", model.CZCE, "20061218"},
	{"菜籽油", "OI", model.CZCE, "20070608"},
	{"菜籽粕", "RM", model.CZCE, "20121228"},
	{"甲醇", "MA", model.CZCE, "20111026"},
	{"玻璃", "FG", model.CZCE, "20121203"},
	{"纯碱", "SA", model.CZCE, "20191206"},
	{"尿素", "UR", model.CZCE, "20190809"},
	{"花生", "PK", model.CZCE, "20210201"},
	{"短纤", "PF", model.CZCE, "20201016"},
}

// Catalog returns the built-in futures product list in download order.
// The returned slice is a fresh copy.
func Catalog() []model.Instrument {
	out := make([]model.Instrument, 0, len(catalog))
	for _, e := range catalog {
		d, err := model.ParseDate(e.listing)
		if err != nil {
			panic("instrument: bad catalog date " + e.listing)
		}
		out = append(out, model.Instrument{Name: e.name, Code: e.code, Venue: e.venue, ListingDate: d})
	}
	return out
}

// Lookup finds a catalog entry by key.
func Lookup(key model.InstrumentKey) (model.Instrument, bool) {
	for _, inst := range Catalog() {
		if inst.Key() == key {
			return inst, true
		}
	}
	return model.Instrument{}, false
}
