package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Clinic Appointment API",
        "description": "Clinic staff, schedule and appointment booking backend",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Users", "description": "Clinic staff management"},
        {"name": "Roles", "description": "Role catalogue"},
        {"name": "UserRoles", "description": "User role assignments"},
        {"name": "Rooms", "description": "Consultation rooms"},
        {"name": "Items", "description": "Billable service items"},
        {"name": "Members", "description": "Patient registry"},
        {"name": "DoctorSchedules", "description": "Recurring weekly schedules and availability"},
        {"name": "Appointments", "description": "Appointment booking"},
        {"name": "Exports", "description": "Asynchronous appointment exports"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {"200": {"description": "Ready"}}
            }
        },
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List users",
                "responses": {"200": {"description": "User list", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Users"],
                "summary": "Create user",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/users/{id}": {
            "get": {
                "tags": ["Users"],
                "summary": "Get user by ID",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "User", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["Users"],
                "summary": "Update user",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "integer"}],
                "responses": {"200": {"description": "Updated", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/roles": {
            "get": {"tags": ["Roles"], "summary": "List roles", "responses": {"200": {"description": "Role list"}}},
            "post": {"tags": ["Roles"], "summary": "Create role", "responses": {"201": {"description": "Created"}}}
        },
        "/roles/{id}": {
            "get": {"tags": ["Roles"], "summary": "Get role by ID", "responses": {"200": {"description": "Role"}}},
            "put": {"tags": ["Roles"], "summary": "Update role", "responses": {"200": {"description": "Updated"}}}
        },
        "/userRoles": {
            "get": {"tags": ["UserRoles"], "summary": "List role assignments", "responses": {"200": {"description": "Assignment list"}}},
            "post": {"tags": ["UserRoles"], "summary": "Assign role to user", "responses": {"201": {"description": "Created"}, "409": {"description": "Already assigned"}}}
        },
        "/userRoles/{id}": {
            "put": {"tags": ["UserRoles"], "summary": "Update role assignment", "responses": {"200": {"description": "Updated"}}}
        },
        "/rooms": {
            "get": {"tags": ["Rooms"], "summary": "List rooms", "responses": {"200": {"description": "Room list"}}},
            "post": {"tags": ["Rooms"], "summary": "Create room", "responses": {"201": {"description": "Created"}}}
        },
        "/rooms/{id}": {
            "get": {"tags": ["Rooms"], "summary": "Get room by ID", "responses": {"200": {"description": "Room"}}},
            "put": {"tags": ["Rooms"], "summary": "Update room", "responses": {"200": {"description": "Updated"}}}
        },
        "/items": {
            "get": {"tags": ["Items"], "summary": "List service items", "responses": {"200": {"description": "Item list"}}},
            "post": {"tags": ["Items"], "summary": "Create service item", "responses": {"201": {"description": "Created"}}}
        },
        "/items/{id}": {
            "get": {"tags": ["Items"], "summary": "Get service item by ID", "responses": {"200": {"description": "Item"}}},
            "put": {"tags": ["Items"], "summary": "Update service item", "responses": {"200": {"description": "Updated"}}}
        },
        "/members": {
            "get": {"tags": ["Members"], "summary": "List members", "responses": {"200": {"description": "Member list"}}},
            "post": {"tags": ["Members"], "summary": "Register member", "responses": {"201": {"description": "Created"}, "409": {"description": "Mobile number already exists"}}}
        },
        "/members/{id}": {
            "get": {"tags": ["Members"], "summary": "Get member by ID", "responses": {"200": {"description": "Member"}}},
            "put": {"tags": ["Members"], "summary": "Update member", "responses": {"200": {"description": "Updated"}}}
        },
        "/doctorSchedules": {
            "get": {"tags": ["DoctorSchedules"], "summary": "List doctor schedules", "responses": {"200": {"description": "Schedule list"}}},
            "post": {"tags": ["DoctorSchedules"], "summary": "Create doctor schedule", "responses": {"201": {"description": "Created"}, "409": {"description": "Schedule time conflicts with existing schedule"}}}
        },
        "/doctorSchedules/{id}": {
            "get": {"tags": ["DoctorSchedules"], "summary": "Get doctor schedule by ID", "responses": {"200": {"description": "Schedule"}}},
            "put": {"tags": ["DoctorSchedules"], "summary": "Update doctor schedule", "responses": {"200": {"description": "Updated"}, "409": {"description": "Schedule time conflicts with existing schedule"}}}
        },
        "/doctorSchedules/{id}/workingDays": {
            "get": {
                "tags": ["DoctorSchedules"],
                "summary": "List dated working days for a doctor over an inclusive date range",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "startDate", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "endDate", "in": "query", "required": true, "type": "string", "format": "date"}
                ],
                "responses": {"200": {"description": "Working days"}, "400": {"description": "Invalid date range"}}
            }
        },
        "/doctorSchedules/{id}/availableTimes": {
            "get": {
                "tags": ["DoctorSchedules"],
                "summary": "List bookable time slots for a doctor over an inclusive date range",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "startDate", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "endDate", "in": "query", "required": true, "type": "string", "format": "date"},
                    {"name": "intervalMinutes", "in": "query", "required": false, "type": "integer"}
                ],
                "responses": {"200": {"description": "Available slots"}, "400": {"description": "Invalid date range"}}
            }
        },
        "/appointments": {
            "get": {"tags": ["Appointments"], "summary": "List appointments", "responses": {"200": {"description": "Appointment list"}}},
            "post": {"tags": ["Appointments"], "summary": "Book appointment", "responses": {"201": {"description": "Created"}, "409": {"description": "Appointment time already exists"}}}
        },
        "/appointments/{id}": {
            "get": {"tags": ["Appointments"], "summary": "Get appointment by ID", "responses": {"200": {"description": "Appointment"}}},
            "put": {"tags": ["Appointments"], "summary": "Update appointment", "responses": {"200": {"description": "Updated"}, "409": {"description": "Appointment time already exists"}}}
        },
        "/appointments/export": {
            "post": {"tags": ["Exports"], "summary": "Queue appointment export", "responses": {"202": {"description": "Job queued"}}}
        },
        "/exports/{id}": {
            "get": {"tags": ["Exports"], "summary": "Get export job status", "responses": {"200": {"description": "Job status"}, "404": {"description": "Job not found"}}}
        },
        "/exports/{id}/download": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download finished export with a signed token",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "File stream"}, "400": {"description": "Invalid or expired download token"}}
            }
        }
    },
    "definitions": {
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
