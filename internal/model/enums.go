package model

type ClubType string

const (
	ClubDriver ClubType = "driver"
	ClubWood   ClubType = "wood"
	ClubHybrid ClubType = "hybrid"
	ClubIron   ClubType = "iron"
	ClubWedge  ClubType = "wedge"
	ClubPutter ClubType = "putter"
)

var ValidClubTypes = []string{
	string(ClubDriver),
	string(ClubWood),
	string(ClubHybrid),
	string(ClubIron),
	string(ClubWedge),
	string(ClubPutter),
}
