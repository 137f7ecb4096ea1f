package models

import "strings"

// WalletTicket is a purchased ticket as shown in the buyer's wallet.
type WalletTicket struct {
	ID           string `json:"id"`
	EventID      string `json:"eventId"`
	EventName    string `json:"eventName"`
	EventImage   string `json:"eventImage"`
	TicketType   string `json:"ticketType"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Location     string `json:"location"`
	QRCode       string `json:"qrCode"`
	Code         string `json:"code"`
	Used         bool   `json:"used"`
	HolderName   string `json:"holderName"`
	HolderCPF    string `json:"holderCpf"`
	PurchaseDate string `json:"purchaseDate"`
}

type APITicket struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	QRCode    string `json:"qrCode"`
	Used      bool   `json:"used"`
	UsedAt    string `json:"usedAt,omitempty"`
	CreatedAt string `json:"createdAt"`
	Event     *struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		CoverImage string `json:"coverImage"`
		Location   string `json:"location"`
	} `json:"event"`
	EventDate *struct {
		ID        string  `json:"id"`
		Date      string  `json:"date"`
		StartTime *string `json:"startTime"`
	} `json:"eventDate"`
	TicketType *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"ticketType"`
	Owner *struct {
		ID   string `json:"id"`
		Name string `json:"name"`
		CPF  string `json:"cpf"`
	} `json:"owner"`
}

func (t APITicket) ToWalletTicket() WalletTicket {
	w := WalletTicket{
		ID:     t.ID,
		QRCode: t.QRCode,
		Code:   t.Code,
		Used:   t.Used,
	}
	if t.Event != nil {
		w.EventID = t.Event.ID
		w.EventName = t.Event.Title
		w.EventImage = t.Event.CoverImage
		w.Location = t.Event.Location
	}
	if t.EventDate != nil {
		w.Date = t.EventDate.Date
		w.Time = deref(t.EventDate.StartTime)
	}
	if t.TicketType != nil {
		w.TicketType = t.TicketType.Name
	}
	if t.Owner != nil {
		w.HolderName = t.Owner.Name
		w.HolderCPF = t.Owner.CPF
	}
	if t.CreatedAt != "" {
		w.PurchaseDate, _, _ = strings.Cut(t.CreatedAt, "T")
	}
	return w
}
