package engine

import "worldstats/internal/models"

func rec(year int, code, name string, pop, gdp float64) models.Record {
	r := models.Record{Year: year, Code: code, Country: name, Population: pop, GDP: gdp}
	if pop > 0 {
		r.GDPPerCapita = gdp / pop
	}
	return r
}

// sampleRecords: 2018..2022, FRA only from 2019, ZZZ with no data in 2022.
func sampleRecords() []models.Record {
	var out []models.Record
	for y := 2018; y <= 2022; y++ {
		g := float64(y - 2017)
		out = append(out,
			rec(y, "USA", "United States", 330e6, 20e12*g),
			rec(y, "CHN", "China", 1400e6, 14e12*g),
			rec(y, "IND", "India", 1380e6, 3e12*g),
			rec(y, "DEU", "Germany", 83e6, 4e12*g),
			rec(y, "JPN", "Japan", 125e6, 5e12*g),
			rec(y, "BRA", "Brazil", 212e6, 2e12*g),
			rec(y, "TUV", "Tuvalu", 11e3, 60e6*g),
		)
		if y >= 2019 {
			out = append(out, rec(y, "FRA", "France", 67e6, 3e12*g))
		}
	}
	out = append(out, models.Record{Year: 2022, Code: "ZZZ", Country: "Nowhere"})
	return out
}

func mustLoad(t interface{ Fatal(...any) }, records []models.Record) *YearIndex {
	ix, err := Load(records)
	if err != nil {
		t.Fatal(err)
	}
	return ix
}
