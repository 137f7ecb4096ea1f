package models

// Shapes returned by the remote GraphQL API. Optional scalars are pointers so that
// null and absent fields can be told apart from zero values.

type APITicketType struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Price        float64 `json:"price"`
	Audience     string  `json:"audience"`
	MaxQuantity  int     `json:"maxQuantity"`
	SoldQuantity int     `json:"soldQuantity"`
}

type APILot struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	StartsAt          string          `json:"startsAt,omitempty"`
	EndsAt            string          `json:"endsAt,omitempty"`
	Active            bool            `json:"active"`
	AvailableQuantity int             `json:"availableQuantity"`
	TotalQuantity     int             `json:"totalQuantity"`
	TicketTypes       []APITicketType `json:"ticketTypes"`
}

type APIEventDate struct {
	ID        string   `json:"id"`
	Date      string   `json:"date"`
	StartTime *string  `json:"startTime"`
	EndTime   *string  `json:"endTime"`
	Lots      []APILot `json:"lots"`
}

type APIUserRef struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	PhotoURL *string `json:"photoUrl"`
}

type APIProducer struct {
	ID          string      `json:"id"`
	User        *APIUserRef `json:"user"`
	CompanyName *string     `json:"companyName,omitempty"`
}

type APIEvent struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	CoverImage  string         `json:"coverImage"`
	Location    string         `json:"location"`
	Address     *string        `json:"address"`
	Status      string         `json:"status,omitempty"`
	Featured    *bool          `json:"featured"`
	Producer    *APIProducer   `json:"producer"`
	Dates       []APIEventDate `json:"dates"`
}
