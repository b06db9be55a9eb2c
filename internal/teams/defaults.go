package teams

// DefaultAliasGroups covers names that normalization alone cannot reconcile:
// mascot suffixes, initialisms, and Saint/St. spellings.
var DefaultAliasGroups = [][]string{
	// College basketball / football
	{"Duke", "Duke Blue Devils"},
	{"North Carolina", "UNC", "North Carolina Tar Heels"},
	{"NC State", "North Carolina State", "NC State Wolfpack", "North Carolina State Wolfpack"},
	{"Tennessee State", "Tennessee St", "Tennessee State Tigers"},
	{"Memphis", "Memphis Tigers"},
	{"Saint Louis", "St. Louis", "SLU", "Saint Louis Billikens"},
	{"St. John's", "Saint John's", "St. John's Red Storm"},
	{"Saint Mary's", "St. Mary's", "Saint Mary's Gaels", "Saint Mary's (CA)"},
	{"Mount St. Mary's", "Mount Saint Mary's", "Mount St. Mary's Mountaineers"},
	{"Saint Joseph's", "St. Joseph's", "Saint Joseph's Hawks"},
	{"Saint Peter's", "St. Peter's", "Saint Peter's Peacocks"},
	{"St. Bonaventure", "Saint Bonaventure", "St. Bonaventure Bonnies"},
	{"UConn", "Connecticut", "UConn Huskies", "Connecticut Huskies"},
	{"Ole Miss", "Mississippi", "Ole Miss Rebels"},
	{"Pitt", "Pittsburgh", "Pittsburgh Panthers"},
	{"USC", "Southern California", "USC Trojans"},
	{"LSU", "Louisiana State", "LSU Tigers"},
	{"UCF", "Central Florida", "UCF Knights"},
	{"SMU", "Southern Methodist", "SMU Mustangs"},
	{"TCU", "Texas Christian", "TCU Horned Frogs"},
	{"BYU", "Brigham Young", "BYU Cougars"},
	{"UNLV", "Nevada-Las Vegas", "UNLV Rebels"},
	{"VCU", "Virginia Commonwealth", "VCU Rams"},
	{"UMass", "Massachusetts", "Massachusetts Minutemen"},
	{"Miami", "Miami (FL)", "Miami FL", "Miami Hurricanes"},
	{"Miami (OH)", "Miami OH", "Miami Ohio", "Miami RedHawks"},
	{"Appalachian State", "App State", "Appalachian State Mountaineers"},
	{"Kansas", "Kansas Jayhawks"},
	{"Kentucky", "Kentucky Wildcats"},
	{"Gonzaga", "Gonzaga Bulldogs"},
	{"Villanova", "Villanova Wildcats"},

	// Pro
	{"LA Clippers", "Los Angeles Clippers"},
	{"LA Lakers", "Los Angeles Lakers"},
	{"LA Rams", "Los Angeles Rams"},
	{"LA Chargers", "Los Angeles Chargers"},
	{"LA Kings", "Los Angeles Kings"},
	{"Utah Hockey Club", "Utah Mammoth"},
}
