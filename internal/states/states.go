// Package states provides the static state-code to long-name lookup used by
// both indexing and scoring.
package states

// Table is a read-only mapping from short state code to long-form name.
// It satisfies model.LongNameResolver.
type Table map[string]string

// LongName returns the long-form name for code. Unknown codes are not an error.
func (t Table) LongName(code string) (string, bool) {
	name, ok := t[code]
	return name, ok
}

// Default holds the codes found in the NCES school directory, including
// territories and the Bureau of Indian Affairs.
var Default = Table{
	"AL": "ALABAMA",
	"AK": "ALASKA",
	"AZ": "ARIZONA",
	"AR": "ARKANSAS",
	"CA": "CALIFORNIA",
	"CO": "COLORADO",
	"CT": "CONNECTICUT",
	"DE": "DELAWARE",
	"DC": "DISTRICT OF COLUMBIA",
	"FL": "FLORIDA",
	"GA": "GEORGIA",
	"HI": "HAWAII",
	"ID": "IDAHO",
	"IL": "ILLINOIS",
	"IN": "INDIANA",
	"IA": "IOWA",
	"KS": "KANSAS",
	"KY": "KENTUCKY",
	"LA": "LOUISIANA",
	"ME": "MAINE",
	"MD": "MARYLAND",
	"MA": "MASSACHUSETTS",
	"MI": "MICHIGAN",
	"MN": "MINNESOTA",
	"MS": "MISSISSIPPI",
	"MO": "MISSOURI",
	"MT": "MONTANA",
	"NE": "NEBRASKA",
	"NV": "NEVADA",
	"NH": "NEW HAMPSHIRE",
	"NJ": "NEW JERSEY",
	"NM": "NEW MEXICO",
	"NY": "NEW YORK",
	"NC": "NORTH CAROLINA",
	"ND": "NORTH DAKOTA",
	"OH": "OHIO",
	"OK": "OKLAHOMA",
	"OR": "OREGON",
	"PA": "PENNSYLVANIA",
	"RI": "RHODE ISLAND",
	"SC": "SOUTH CAROLINA",
	"SD": "SOUTH DAKOTA",
	"TN": "TENNESSEE",
	"TX": "TEXAS",
	"UT": "UTAH",
	"VT": "VERMONT",
	"VA": "VIRGINIA",
	"WA": "WASHINGTON",
	"WV": "WEST VIRGINIA",
	"WI": "WISCONSIN",
	"WY": "WYOMING",
	"BI": "BUREAU OF INDIAN AFFAIRS",
	"AS": "AMERICAN SAMOA",
	"GU": "GUAM",
	"MP": "NORTHERN MARIANAS",
	"PR": "PUERTO RICO",
	"VI": "VIRGIN ISLANDS",
}
