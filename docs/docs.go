// Package docs holds the OpenAPI document served at /swagger.
// Regenerate with: swag init -g cmd/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a trainer account",
                "parameters": [
                    {"description": "Registration payload", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handlers.RegisterResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/api/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in with email and password",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.TokenResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/api/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Revoke the current session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.LogoutResponse"}}
                }
            }
        },
        "/api/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.User"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/api/trainers/{trainerId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["trainers"],
                "summary": "Trainer profile",
                "parameters": [
                    {"type": "string", "description": "Trainer ID", "name": "trainerId", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Trainer"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["trainers"],
                "summary": "Update profile settings",
                "parameters": [
                    {"type": "string", "description": "Trainer ID", "name": "trainerId", "in": "path", "required": true},
                    {"description": "Profile settings", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/services.UpdateProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.UpdateTrainerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/api/timezones": {
            "get": {
                "produces": ["application/json"],
                "tags": ["trainers"],
                "summary": "Supported timezones",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/timezones.Option"}}}
                }
            }
        },
        "/pages/{subdomain}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["pages"],
                "summary": "Public trainer page",
                "parameters": [
                    {"type": "string", "description": "Subdomain label", "name": "subdomain", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.PublicPage"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "429": {"description": "Too Many Requests"}
                }
            }
        },
        "/api/dashboard/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Booking statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.DashboardStats"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/api/dashboard/bookings": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Next upcoming bookings",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/models.UpcomingBooking"}}}
                }
            }
        },
        "/api/uploads/profile-image": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["uploads"],
                "summary": "Upload a profile photo",
                "parameters": [
                    {"type": "file", "description": "Image file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/services.UploadResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/common.ErrorResponse"}},
                    "415": {"description": "Unsupported Media Type", "schema": {"$ref": "#/definitions/common.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.HealthStatus"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handlers.HealthStatus"}}
                }
            }
        }
    },
    "definitions": {
        "common.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "code": {"type": "string"},
                "details": {"type": "array", "items": {"$ref": "#/definitions/common.FieldError"}}
            }
        },
        "common.FieldError": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "services.RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "email": {"type": "string"},
                "businessName": {"type": "string"},
                "password": {"type": "string"},
                "confirmPassword": {"type": "string"}
            }
        },
        "services.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "businessName": {"type": "string"},
                "bio": {"type": "string"},
                "phone": {"type": "string"},
                "timezone": {"type": "string"},
                "profilePhoto": {"type": "string"}
            }
        },
        "services.UploadResult": {
            "type": "object",
            "properties": {
                "uploadedBy": {"type": "string"},
                "url": {"type": "string"}
            }
        },
        "handlers.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handlers.RegisterResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "user": {
                    "type": "object",
                    "properties": {"id": {"type": "string"}, "email": {"type": "string"}, "name": {"type": "string"}}
                },
                "trainer": {
                    "type": "object",
                    "properties": {"id": {"type": "string"}, "subdomain": {"type": "string"}}
                }
            }
        },
        "handlers.LogoutResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"}
            }
        },
        "handlers.UpdateTrainerResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "trainer": {"$ref": "#/definitions/models.Trainer"}
            }
        },
        "handlers.HealthStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "timestamp": {"type": "string"},
                "services": {"type": "object", "additionalProperties": {"type": "string"}},
                "version": {"type": "string"}
            }
        },
        "models.User": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "trainerId": {"type": "string"},
                "email": {"type": "string"},
                "name": {"type": "string"},
                "role": {"type": "string"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "models.TokenResponse": {
            "type": "object",
            "properties": {
                "accessToken": {"type": "string"},
                "tokenType": {"type": "string"},
                "expiresIn": {"type": "integer"},
                "expiresAt": {"type": "string"},
                "tokenId": {"type": "string"},
                "user": {"$ref": "#/definitions/models.User"}
            }
        },
        "models.Trainer": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "businessName": {"type": "string"},
                "subdomain": {"type": "string"},
                "bio": {"type": "string"},
                "phone": {"type": "string"},
                "timezone": {"type": "string"},
                "profilePhoto": {"type": "string"},
                "subscriptionTier": {"type": "string"},
                "smsCredits": {"type": "integer"},
                "emailCredits": {"type": "integer"},
                "createdAt": {"type": "string"},
                "updatedAt": {"type": "string"},
                "user": {
                    "type": "object",
                    "properties": {"name": {"type": "string"}, "email": {"type": "string"}}
                }
            }
        },
        "models.PublicPage": {
            "type": "object",
            "properties": {
                "trainerId": {"type": "string"},
                "businessName": {"type": "string"},
                "subdomain": {"type": "string"},
                "bio": {"type": "string"},
                "timezone": {"type": "string"},
                "profilePhoto": {"type": "string"}
            }
        },
        "models.DashboardStats": {
            "type": "object",
            "properties": {
                "totalBookings": {"type": "integer"},
                "confirmedBookings": {"type": "integer"},
                "completedBookings": {"type": "integer"},
                "cancelledBookings": {"type": "integer"},
                "noShowBookings": {"type": "integer"},
                "bookingsThisWeek": {"type": "integer"},
                "bookingsThisMonth": {"type": "integer"},
                "bookingsLastMonth": {"type": "integer"},
                "bookingsChange": {"type": "integer"},
                "activeClients": {"type": "integer"},
                "totalClients": {"type": "integer"},
                "hoursThisWeek": {"type": "number"},
                "completionRate": {"type": "integer"},
                "noShowRate": {"type": "integer"},
                "revenue": {"type": "number"},
                "generatedAt": {"type": "string"}
            }
        },
        "models.UpcomingBooking": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "startTime": {"type": "string"},
                "endTime": {"type": "string"},
                "duration": {"type": "integer"},
                "status": {"type": "string"},
                "client": {
                    "type": "object",
                    "properties": {"id": {"type": "string"}, "name": {"type": "string"}, "email": {"type": "string"}}
                }
            }
        },
        "timezones.Option": {
            "type": "object",
            "properties": {
                "value": {"type": "string"},
                "label": {"type": "string"},
                "offset": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "TrainerDesk API",
	Description:      "Multi-tenant trainer profiles, dashboards and public pages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
