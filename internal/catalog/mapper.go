package catalog

import "ms-storefront/internal/models"

const defaultProducerName = "Produtor"

// MapAPIEvent converts a GraphQL event into the storefront shape. The current lot
// is the first active lot, walking dates in order, that offers ticket types.
func MapAPIEvent(api models.APIEvent) models.Event {
	event := models.Event{
		ID:          api.ID,
		Name:        api.Title,
		Description: api.Description,
		Category:    api.Category,
		CoverImage:  api.CoverImage,
		Location:    api.Location,
		Dates:       make([]models.EventDate, 0, len(api.Dates)),
		CurrentLot:  models.NoLot(),
	}
	if api.Address != nil {
		event.Address = *api.Address
	}
	if api.Featured != nil {
		event.Featured = *api.Featured
	}

	for _, d := range api.Dates {
		ed := models.EventDate{ID: d.ID, Date: d.Date}
		if d.StartTime != nil {
			ed.Time = *d.StartTime
		}
		event.Dates = append(event.Dates, ed)
	}

	for _, d := range api.Dates {
		lot := firstActiveLot(d.Lots)
		if lot == nil || len(lot.TicketTypes) == 0 {
			continue
		}
		event.CurrentLot = mapLot(*lot)
		break
	}

	if api.Producer != nil {
		producer := &models.EventProducer{ID: api.Producer.ID, Name: defaultProducerName}
		if u := api.Producer.User; u != nil {
			producer.Name = u.Name
			if u.PhotoURL != nil {
				producer.PhotoURL = *u.PhotoURL
			}
		}
		event.Producer = producer
	}
	return event
}

func MapAPIEvents(api []models.APIEvent) []models.Event {
	events := make([]models.Event, 0, len(api))
	for _, e := range api {
		events = append(events, MapAPIEvent(e))
	}
	return events
}

func firstActiveLot(lots []models.APILot) *models.APILot {
	for i := range lots {
		if lots[i].Active {
			return &lots[i]
		}
	}
	return nil
}

// mapLot groups ticket types by name, keeping first-seen order.
func mapLot(lot models.APILot) models.Lot {
	tickets := make([]models.TicketType, 0)
	index := make(map[string]int)
	for _, tt := range lot.TicketTypes {
		variant := models.Variant{
			ID:        tt.ID,
			Audience:  tt.Audience,
			Price:     tt.Price,
			Available: tt.MaxQuantity - tt.SoldQuantity,
			Total:     tt.MaxQuantity,
		}
		i, ok := index[tt.Name]
		if !ok {
			description := ""
			if tt.Description != nil {
				description = *tt.Description
			}
			tickets = append(tickets, models.TicketType{Name: tt.Name, Description: description})
			i = len(tickets) - 1
			index[tt.Name] = i
		}
		tickets[i].Variants = append(tickets[i].Variants, variant)
	}

	status := models.LotActive
	if lot.AvailableQuantity <= 0 {
		status = models.LotSoldOut
	}
	return models.Lot{ID: lot.ID, Name: lot.Name, Status: status, Tickets: tickets}
}
