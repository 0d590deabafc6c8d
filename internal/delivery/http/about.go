package http

type aboutSection struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type aboutPage struct {
	Title    string         `json:"title"`
	Sections []aboutSection `json:"sections"`
}

var about = aboutPage{
	Title: "About the App",
	Sections: []aboutSection{
		{
			Title: "Features",
			Items: []string{
				"Geospatial joins: fires are matched to a fire station by the distance between their PostGIS geographies.",
				"Fire boundaries and station locations are stored in native geometry types and drawn as map layers.",
				"Each fire carries the number of cadastral lots its boundary intersects.",
				"An optional language model assistant turns questions into read-only SQL against the same tables.",
			},
		},
		{
			Title: "Data Sources",
			Items: []string{
				"Cadastre - Boundaries & Attributes - Australia: QLD_CADASTRE_LOT_GDA2020",
				"Wildfire - Fire Locations & Fire Stations - Australia: QLD_RURAL_FIRE_BRIGADE_BOUNDARIES_GDA2020",
				"Wildfire - Fire Locations & Fire Stations - Australia: QLD_HISTORICAL_FIRE_RECORDS_GDA2020",
				"Wildfire - Fire Locations & Fire Stations - Australia: QLD_URBAN_FIRE_STATION_LOCATIONS_GDA2020",
				"Wildfire - Fire Locations & Fire Stations - Australia: QLD_RURAL_FIRE_STATION_LOCATIONS_GDA2020",
			},
		},
	},
}
