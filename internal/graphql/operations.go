package graphql

// Operation pairs a GraphQL document with the name used in logs and errors.
type Operation struct {
	Name  string
	Query string
}

const userFields = `
fragment UserFields on User {
  id
  name
  email
  cpf
  birthDate
  phoneCountryCode
  phoneAreaCode
  phoneNumber
  photoUrl
  role
  createdAt
}
`

const eventListFields = `
  id
  title
  description
  category
  coverImage
  location
  address
  status
  featured
  dates {
    id
    date
    startTime
    endTime
    lots {
      id
      name
      active
      availableQuantity
      totalQuantity
      ticketTypes {
        id
        name
        price
        audience
        maxQuantity
        soldQuantity
      }
    }
  }
`

var (
	OpLogin = Operation{Name: "Login", Query: userFields + `
mutation Login($input: LoginInput!) {
  login(input: $input) {
    token
    user { ...UserFields }
  }
}`}

	OpRegister = Operation{Name: "Register", Query: userFields + `
mutation Register($input: RegisterInput!) {
  register(input: $input) {
    token
    user { ...UserFields }
  }
}`}

	OpMe = Operation{Name: "Me", Query: userFields + `
query Me {
  me { ...UserFields }
}`}

	OpUpdatePhone = Operation{Name: "UpdatePhone", Query: userFields + `
mutation UpdatePhone($phoneCountryCode: String!, $phoneAreaCode: String!, $phoneNumber: String!) {
  updatePhone(phoneCountryCode: $phoneCountryCode, phoneAreaCode: $phoneAreaCode, phoneNumber: $phoneNumber) {
    ...UserFields
  }
}`}

	OpEvents = Operation{Name: "Events", Query: `
query Events($filter: EventFilter) {
  events(filter: $filter) {` + eventListFields + `  }
}`}

	OpEvent = Operation{Name: "Event", Query: `
query Event($id: ID!) {
  event(id: $id) {
    id
    title
    description
    category
    coverImage
    location
    address
    status
    featured
    producer {
      id
      user { id name photoUrl }
    }
    dates {
      id
      date
      startTime
      endTime
      lots {
        id
        name
        active
        availableQuantity
        totalQuantity
        ticketTypes {
          id
          name
          description
          price
          audience
          maxQuantity
          soldQuantity
        }
      }
    }
  }
}`}

	OpProducerPublicProfile = Operation{Name: "ProducerPublicProfile", Query: `
query ProducerPublicProfile($producerId: ID!) {
  producerPublicProfile(producerId: $producerId) {
    producer {
      id
      user { id name photoUrl }
      companyName
    }
    events {` + eventListFields + `    }
  }
}`}

	OpMyTickets = Operation{Name: "MyTickets", Query: `
query MyTickets {
  myTickets {
    id
    code
    qrCode
    used
    createdAt
    event { id title coverImage location }
    eventDate { id date startTime }
    ticketType { id name }
    owner { id name cpf }
  }
}`}

	OpCheckoutPreview = Operation{Name: "CheckoutPreview", Query: `
mutation CheckoutPreview($input: CheckoutInput!) {
  checkoutPreview(input: $input) {
    checkoutId
    total
    items {
      eventTitle
      eventDate
      ticketTypeName
      quantity
      unitPrice
      subtotal
    }
  }
}`}

	OpValidateTicket = Operation{Name: "ValidateTicket", Query: `
mutation ValidateTicket($eventId: ID!, $qrCode: String!) {
  validateTicket(eventId: $eventId, qrCode: $qrCode) {
    success
    errorCode
    message
    ticket {
      id
      code
      used
      usedAt
      ticketType { name }
      owner { name }
    }
  }
}`}

	OpProducerEvents = Operation{Name: "ProducerEvents", Query: `
query ProducerEvents {
  producerEvents {` + eventListFields + `  }
}`}

	OpCreateEvent = Operation{Name: "CreateEvent", Query: `
mutation CreateEvent($input: CreateEventInput!) {
  createEvent(input: $input) { id title status }
}`}

	OpUpdateEvent = Operation{Name: "UpdateEvent", Query: `
mutation UpdateEvent($id: ID!, $input: UpdateEventInput!) {
  updateEvent(id: $id, input: $input) { id title status }
}`}

	OpPublishEvent = Operation{Name: "PublishEvent", Query: `
mutation PublishEvent($id: ID!) {
  publishEvent(id: $id) { id status }
}`}

	OpUpdateEventStatus = Operation{Name: "UpdateEventStatus", Query: `
mutation UpdateEventStatus($id: ID!, $status: EventStatus!) {
  updateEventStatus(id: $id, status: $status) { id status }
}`}

	OpCreateEventDate = Operation{Name: "CreateEventDate", Query: `
mutation CreateEventDate($eventId: ID!, $input: EventDateInput!) {
  createEventDate(eventId: $eventId, input: $input) { id date startTime endTime }
}`}

	OpCreateLot = Operation{Name: "CreateLot", Query: `
mutation CreateLot($dateId: ID!, $input: LotInput!) {
  createLot(dateId: $dateId, input: $input) {
    id
    name
    startsAt
    endsAt
    totalQuantity
    availableQuantity
    active
  }
}`}

	OpCreateTicketType = Operation{Name: "CreateTicketType", Query: `
mutation CreateTicketType($lotId: ID!, $input: TicketTypeInput!) {
  createTicketType(lotId: $lotId, input: $input) {
    id
    name
    price
    audience
    maxQuantity
    soldQuantity
  }
}`}
)
