package schema

import "sort"

// Regions are the values offered for Country.region
var Regions = []string{"Africa", "Americas", "Asia", "Europe", "Oceania"}

// FallbackRegion is used when a country is missing from the lookup table
const FallbackRegion = "Africa"

var countryRegions = map[string]string{
	"Afghanistan": "Asia", "Albania": "Europe", "Algeria": "Africa",
	"Andorra": "Europe", "Angola": "Africa", "Antigua and Barbuda": "Americas",
	"Argentina": "Americas", "Armenia": "Asia", "Australia": "Oceania",
	"Austria": "Europe", "Azerbaijan": "Asia", "Bahamas": "Americas",
	"Bahrain": "Asia", "Bangladesh": "Asia", "Barbados": "Americas",
	"Belarus": "Europe", "Belgium": "Europe", "Belize": "Americas",
	"Benin": "Africa", "Bhutan": "Asia", "Bolivia": "Americas",
	"Bosnia and Herzegovina": "Europe", "Botswana": "Africa", "Brazil": "Americas",
	"Brunei": "Asia", "Bulgaria": "Europe", "Burkina Faso": "Africa",
	"Burundi": "Africa", "Cabo Verde": "Africa", "Cambodia": "Asia",
	"Cameroon": "Africa", "Canada": "Americas", "Central African Republic": "Africa",
	"Chad": "Africa", "Chile": "Americas", "China": "Asia",
	"Colombia": "Americas", "Comoros": "Africa", "Congo (Congo-Brazzaville)": "Africa",
	"Costa Rica": "Americas", "Croatia": "Europe", "Cuba": "Americas",
	"Cyprus": "Europe", "Czechia (Czech Republic)": "Europe", "Democratic Republic of the Congo": "Africa",
	"Denmark": "Europe", "Djibouti": "Africa", "Dominica": "Americas",
	"Dominican Republic": "Americas", "Ecuador": "Americas", "Egypt": "Africa",
	"El Salvador": "Americas", "Equatorial Guinea": "Africa", "Eritrea": "Africa",
	"Estonia": "Europe", "Eswatini": "Africa", "Ethiopia": "Africa",
	"Fiji": "Oceania", "Finland": "Europe", "France": "Europe",
	"Gabon": "Africa", "Gambia": "Africa", "Georgia": "Asia",
	"Germany": "Europe", "Ghana": "Africa", "Greece": "Europe",
	"Grenada": "Americas", "Guatemala": "Americas", "Guinea": "Africa",
	"Guinea-Bissau": "Africa", "Guyana": "Americas", "Haiti": "Americas",
	"Holy See": "Europe", "Honduras": "Americas", "Hungary": "Europe",
	"Iceland": "Europe", "India": "Asia", "Indonesia": "Asia",
	"Iran": "Asia", "Iraq": "Asia", "Ireland": "Europe",
	"Israel": "Asia", "Italy": "Europe", "Ivory Coast": "Africa",
	"Jamaica": "Americas", "Japan": "Asia", "Jordan": "Asia",
	"Kazakhstan": "Asia", "Kenya": "Africa", "Kiribati": "Oceania",
	"Kuwait": "Asia", "Kyrgyzstan": "Asia", "Laos": "Asia",
	"Latvia": "Europe", "Lebanon": "Asia", "Lesotho": "Africa",
	"Liberia": "Africa", "Libya": "Africa", "Liechtenstein": "Europe",
	"Lithuania": "Europe", "Luxembourg": "Europe", "Madagascar": "Africa",
	"Malawi": "Africa", "Malaysia": "Asia", "Maldives": "Asia",
	"Mali": "Africa", "Malta": "Europe", "Marshall Islands": "Oceania",
	"Mauritania": "Africa", "Mauritius": "Africa", "Mexico": "Americas",
	"Micronesia": "Oceania", "Moldova": "Europe", "Monaco": "Europe",
	"Mongolia": "Asia", "Montenegro": "Europe", "Morocco": "Africa",
	"Mozambique": "Africa", "Myanmar (formerly Burma)": "Asia", "Namibia": "Africa",
	"Nauru": "Oceania", "Nepal": "Asia", "Netherlands": "Europe",
	"New Zealand": "Oceania", "Nicaragua": "Americas", "Niger": "Africa",
	"Nigeria": "Africa", "North Korea": "Asia", "North Macedonia": "Europe",
	"Norway": "Europe", "Oman": "Asia", "Pakistan": "Asia",
	"Palau": "Oceania", "Palestine State": "Asia", "Panama": "Americas",
	"Papua New Guinea": "Oceania", "Paraguay": "Americas", "Peru": "Americas",
	"Philippines": "Asia", "Poland": "Europe", "Portugal": "Europe",
	"Qatar": "Asia", "Romania": "Europe", "Russia": "Europe",
	"Rwanda": "Africa", "Saint Kitts and Nevis": "Americas", "Saint Lucia": "Americas",
	"Saint Vincent and the Grenadines": "Americas", "Samoa": "Oceania", "San Marino": "Europe",
	"Sao Tome and Principe": "Africa", "Saudi Arabia": "Asia", "Senegal": "Africa",
	"Serbia": "Europe", "Seychelles": "Africa", "Sierra Leone": "Africa",
	"Singapore": "Asia", "Slovakia": "Europe", "Slovenia": "Europe",
	"Solomon Islands": "Oceania", "Somalia": "Africa", "South Africa": "Africa",
	"South Korea": "Asia", "South Sudan": "Africa", "Spain": "Europe",
	"Sri Lanka": "Asia", "Sudan": "Africa", "Suriname": "Americas",
	"Sweden": "Europe", "Switzerland": "Europe", "Syria": "Asia",
	"Tajikistan": "Asia", "Tanzania": "Africa", "Thailand": "Asia",
	"Timor-Leste": "Asia", "Togo": "Africa", "Tonga": "Oceania",
	"Trinidad and Tobago": "Americas", "Tunisia": "Africa", "Turkey": "Asia",
	"Turkmenistan": "Asia", "Tuvalu": "Oceania", "Uganda": "Africa",
	"Ukraine": "Europe", "United Arab Emirates": "Asia", "United Kingdom": "Europe",
	"United States of America": "Americas", "Uruguay": "Americas", "Uzbekistan": "Asia",
	"Vanuatu": "Oceania", "Venezuela": "Americas", "Vietnam": "Asia",
	"Yemen": "Asia", "Zambia": "Africa", "Zimbabwe": "Africa",
}

// RegionFor returns the region of a country in the reference list
func RegionFor(country string) (string, bool) {
	region, ok := countryRegions[country]
	return region, ok
}

// IsKnownCountry reports whether name is in the reference list
func IsKnownCountry(name string) bool {
	_, ok := countryRegions[name]
	return ok
}

// AllCountries returns the reference country list sorted by name
func AllCountries() []string {
	names := make([]string, 0, len(countryRegions))
	for name := range countryRegions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
