package graphql

import (
	"context"
	"fmt"

	"ms-storefront/internal/models"
)

// Typed wrappers over the operations the storefront uses.

func (c *Client) Events(ctx context.Context, category string) ([]models.APIEvent, error) {
	vars := map[string]interface{}{}
	if category != "" && category != "all" {
		vars["filter"] = map[string]interface{}{"category": category}
	}
	var resp struct {
		Events []models.APIEvent `json:"events"`
	}
	if err := c.Run(ctx, OpEvents, vars, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}

// Event returns nil without error when the API has no such event.
func (c *Client) Event(ctx context.Context, id string) (*models.APIEvent, error) {
	var resp struct {
		Event *models.APIEvent `json:"event"`
	}
	if err := c.Run(ctx, OpEvent, map[string]interface{}{"id": id}, &resp); err != nil {
		return nil, err
	}
	return resp.Event, nil
}

func (c *Client) ProducerPublicProfile(ctx context.Context, producerID string) (*models.APIProducer, []models.APIEvent, error) {
	var resp struct {
		Profile *struct {
			Producer models.APIProducer `json:"producer"`
			Events   []models.APIEvent  `json:"events"`
		} `json:"producerPublicProfile"`
	}
	if err := c.Run(ctx, OpProducerPublicProfile, map[string]interface{}{"producerId": producerID}, &resp); err != nil {
		return nil, nil, err
	}
	if resp.Profile == nil {
		return nil, nil, nil
	}
	return &resp.Profile.Producer, resp.Profile.Events, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthPayload, error) {
	var resp struct {
		Login *models.AuthPayload `json:"login"`
	}
	input := map[string]interface{}{"email": email, "password": password}
	if err := c.Run(ctx, OpLogin, map[string]interface{}{"input": input}, &resp); err != nil {
		return nil, err
	}
	return resp.Login, nil
}

func (c *Client) Register(ctx context.Context, in models.RegisterInput) (*models.AuthPayload, error) {
	var resp struct {
		Register *models.AuthPayload `json:"register"`
	}
	if err := c.Run(ctx, OpRegister, map[string]interface{}{"input": in}, &resp); err != nil {
		return nil, err
	}
	return resp.Register, nil
}

func (c *Client) Me(ctx context.Context) (*models.APIUser, error) {
	var resp struct {
		Me *models.APIUser `json:"me"`
	}
	if err := c.Run(ctx, OpMe, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Me, nil
}

func (c *Client) UpdatePhone(ctx context.Context, in models.PhoneInput) (*models.APIUser, error) {
	var resp struct {
		UpdatePhone *models.APIUser `json:"updatePhone"`
	}
	vars := map[string]interface{}{
		"phoneCountryCode": in.PhoneCountryCode,
		"phoneAreaCode":    in.PhoneAreaCode,
		"phoneNumber":      in.PhoneNumber,
	}
	if err := c.Run(ctx, OpUpdatePhone, vars, &resp); err != nil {
		return nil, err
	}
	return resp.UpdatePhone, nil
}

func (c *Client) MyTickets(ctx context.Context) ([]models.APITicket, error) {
	var resp struct {
		MyTickets []models.APITicket `json:"myTickets"`
	}
	if err := c.Run(ctx, OpMyTickets, nil, &resp); err != nil {
		return nil, err
	}
	return resp.MyTickets, nil
}

func (c *Client) CheckoutPreview(ctx context.Context, items []models.CheckoutItemInput) (*models.CheckoutPreview, error) {
	var resp struct {
		Preview *models.CheckoutPreview `json:"checkoutPreview"`
	}
	input := map[string]interface{}{"items": items}
	if err := c.Run(ctx, OpCheckoutPreview, map[string]interface{}{"input": input}, &resp); err != nil {
		return nil, err
	}
	return resp.Preview, nil
}

func (c *Client) ValidateTicket(ctx context.Context, eventID, qrCode string) (*models.ValidateTicketResult, error) {
	var resp struct {
		ValidateTicket *models.ValidateTicketResult `json:"validateTicket"`
	}
	vars := map[string]interface{}{"eventId": eventID, "qrCode": qrCode}
	if err := c.Run(ctx, OpValidateTicket, vars, &resp); err != nil {
		return nil, err
	}
	if resp.ValidateTicket == nil {
		return nil, fmt.Errorf("validateTicket returned no result")
	}
	return resp.ValidateTicket, nil
}

func (c *Client) ProducerEvents(ctx context.Context) ([]models.APIEvent, error) {
	var resp struct {
		ProducerEvents []models.APIEvent `json:"producerEvents"`
	}
	if err := c.Run(ctx, OpProducerEvents, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ProducerEvents, nil
}

func (c *Client) CreateEvent(ctx context.Context, in models.EventInput) (*models.EventRef, error) {
	var resp struct {
		CreateEvent *models.EventRef `json:"createEvent"`
	}
	if err := c.Run(ctx, OpCreateEvent, map[string]interface{}{"input": in}, &resp); err != nil {
		return nil, err
	}
	return resp.CreateEvent, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, in models.UpdateEventInput) (*models.EventRef, error) {
	var resp struct {
		UpdateEvent *models.EventRef `json:"updateEvent"`
	}
	if err := c.Run(ctx, OpUpdateEvent, map[string]interface{}{"id": id, "input": in}, &resp); err != nil {
		return nil, err
	}
	return resp.UpdateEvent, nil
}

func (c *Client) PublishEvent(ctx context.Context, id string) (*models.EventRef, error) {
	var resp struct {
		PublishEvent *models.EventRef `json:"publishEvent"`
	}
	if err := c.Run(ctx, OpPublishEvent, map[string]interface{}{"id": id}, &resp); err != nil {
		return nil, err
	}
	return resp.PublishEvent, nil
}

func (c *Client) UpdateEventStatus(ctx context.Context, id string, status models.EventStatus) (*models.EventRef, error) {
	var resp struct {
		UpdateEventStatus *models.EventRef `json:"updateEventStatus"`
	}
	if err := c.Run(ctx, OpUpdateEventStatus, map[string]interface{}{"id": id, "status": status}, &resp); err != nil {
		return nil, err
	}
	return resp.UpdateEventStatus, nil
}

func (c *Client) CreateEventDate(ctx context.Context, eventID string, in models.EventDateInput) (*models.APIEventDate, error) {
	var resp struct {
		CreateEventDate *models.APIEventDate `json:"createEventDate"`
	}
	if err := c.Run(ctx, OpCreateEventDate, map[string]interface{}{"eventId": eventID, "input": in}, &resp); err != nil {
		return nil, err
	}
	return resp.CreateEventDate, nil
}

func (c *Client) CreateLot(ctx context.Context, dateID string, in models.LotInput) (*models.APILot, error) {
	var resp struct {
		CreateLot *models.APILot `json:"createLot"`
	}
	if err := c.Run(ctx, OpCreateLot, map[string]interface{}{"dateId": dateID, "input": in}, &resp); err != nil {
		return nil, err
	}
	return resp.CreateLot, nil
}

func (c *Client) CreateTicketType(ctx context.Context, lotID string, in models.TicketTypeInput) (*models.APITicketType, error) {
	var resp struct {
		CreateTicketType *models.APITicketType `json:"createTicketType"`
	}
	if err := c.Run(ctx, OpCreateTicketType, map[string]interface{}{"lotId": lotID, "input": in}, &resp); err != nil {
		return nil, err
	}
	return resp.CreateTicketType, nil
}
