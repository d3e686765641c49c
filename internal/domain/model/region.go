package model

// Region groups teams by league.
type Region string

// Known regions. Everything else is RegionOther.
const (
	RegionLCK   Region = "LCK"
	RegionLPL   Region = "LPL"
	RegionLEC   Region = "LEC"
	RegionOther Region = "OTHER"
)

var lckTeams = map[string]struct{}{
	"SK Telecom T1": {}, "T1": {}, "Gen.G Esports": {}, "KT Rolster": {}, "Hanwha Life Esports": {},
	"DAMWON Gaming": {}, "Dplus": {}, "DRX": {}, "Samsung Galaxy": {}, "Longzhu Gaming": {},
	"ROX Tigers": {}, "KOO Tigers": {}, "Griffin": {}, "Afreeca Freecs": {}, "Samsung Blue": {},
	"Samsung White": {}, "Samsung Ozone": {}, "NaJin Black Sword": {}, "NaJin White Shield": {},
	"SANDBOX Gaming": {}, "Fredit BRION": {}, "Liiv SANDBOX": {}, "Kwangdong Freecs": {},
	"DWG KIA": {}, "Nongshim RedForce": {}, "BNK FearX": {}, "OK BRION": {},
}

var lplTeams = map[string]struct{}{
	"EDward Gaming": {}, "Royal Never Give Up": {}, "Invictus Gaming": {}, "Top Esports": {},
	"LGD Gaming": {}, "JD Gaming": {}, "LNG Esports": {}, "FunPlus Phoenix": {}, "Weibo Gaming": {},
	"Bilibili Gaming": {}, "Oh My God": {}, "Suning": {}, "Anyone's Legend": {}, "Team WE": {},
	"I May": {}, "Royal Club": {}, "Star Horn Royal Club": {},
}

var lecTeams = map[string]struct{}{
	"Fnatic": {}, "G2 Esports": {}, "Rogue": {}, "MAD Lions": {}, "Splyce": {}, "Origen": {},
	"H2K": {}, "H2k-Gaming": {}, "Misfits Gaming": {}, "SK Gaming": {}, "MAD Lions KOI": {},
	"Movistar KOI": {}, "Alliance": {}, "Lemondogs": {}, "GamingGear.eu": {}, "Team Vitality": {},
	"Gambit Gaming": {}, "Gambit Esports": {},
}

// RegionOf returns the league a team name belongs to. Matching is exact.
func RegionOf(team string) Region {
	if _, ok := lckTeams[team]; ok {
		return RegionLCK
	}
	if _, ok := lplTeams[team]; ok {
		return RegionLPL
	}
	if _, ok := lecTeams[team]; ok {
		return RegionLEC
	}
	return RegionOther
}
