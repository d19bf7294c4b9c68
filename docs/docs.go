// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/app/main.go
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
        "/health": {
            "get": {
                "tags": [
                    "system"
                ],
                "summary": "Health check",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/metrics": {
            "get": {
                "tags": [
                    "system"
                ],
                "summary": "Prometheus metrics",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                }
            }
        },
        "/admin/test-email": {
            "post": {
                "tags": [
                    "system"
                ],
                "summary": "Queue a test email",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "email",
                        "in": "query",
                        "required": true,
                        "description": "Recipient email"
                    }
                ]
            }
        },
        "/api/me": {
            "get": {
                "tags": [
                    "user"
                ],
                "summary": "Get current user",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/gyms": {
            "get": {
                "tags": [
                    "gyms"
                ],
                "summary": "List gyms",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ]
            }
        },
        "/api/gyms/{gymID}/machines": {
            "get": {
                "tags": [
                    "gyms"
                ],
                "summary": "List machines of a gym",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "gymID",
                        "in": "path",
                        "required": true,
                        "description": "Gym ID"
                    }
                ]
            }
        },
        "/admin/gyms": {
            "post": {
                "tags": [
                    "gyms"
                ],
                "summary": "Create gym",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Gym",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/admin/gyms/{gymID}/hours": {
            "put": {
                "tags": [
                    "gyms"
                ],
                "summary": "Replace weekly opening hours",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "gymID",
                        "in": "path",
                        "required": true,
                        "description": "Gym ID"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Opening hours",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/admin/gyms/{gymID}/machines": {
            "post": {
                "tags": [
                    "gyms"
                ],
                "summary": "Add machine",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "gymID",
                        "in": "path",
                        "required": true,
                        "description": "Gym ID"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Machine",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/api/booking/availability": {
            "get": {
                "tags": [
                    "availability"
                ],
                "summary": "Gym availability",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "gymId",
                        "in": "query",
                        "required": true,
                        "description": "Gym ID"
                    },
                    {
                        "type": "string",
                        "name": "date",
                        "in": "query",
                        "required": false,
                        "description": "YYYY-MM-DD"
                    },
                    {
                        "type": "string",
                        "name": "startTime",
                        "in": "query",
                        "required": false,
                        "description": "HH:MM or RFC 3339"
                    },
                    {
                        "type": "integer",
                        "name": "duration",
                        "in": "query",
                        "required": false,
                        "description": "Minutes"
                    }
                ]
            }
        },
        "/api/booking/create": {
            "post": {
                "tags": [
                    "bookings"
                ],
                "summary": "Create booking",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "201": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Booking",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/api/bookings": {
            "get": {
                "tags": [
                    "bookings"
                ],
                "summary": "List my bookings",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "description": "pending, confirmed, cancelled or completed"
                    }
                ]
            }
        },
        "/api/bookings/{bookingID}": {
            "get": {
                "tags": [
                    "bookings"
                ],
                "summary": "Get booking",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "bookingID",
                        "in": "path",
                        "required": true,
                        "description": "Booking ID"
                    }
                ]
            }
        },
        "/api/bookings/{bookingID}/summary": {
            "get": {
                "tags": [
                    "bookings"
                ],
                "summary": "Get booking summary",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "bookingID",
                        "in": "path",
                        "required": true,
                        "description": "Booking ID"
                    }
                ]
            }
        },
        "/api/bookings/{bookingID}/cancel": {
            "post": {
                "tags": [
                    "bookings"
                ],
                "summary": "Cancel booking",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "bookingID",
                        "in": "path",
                        "required": true,
                        "description": "Booking ID"
                    }
                ]
            }
        },
        "/api/bookings/{bookingID}/machines": {
            "post": {
                "tags": [
                    "bookings"
                ],
                "summary": "Add machine to booking",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "bookingID",
                        "in": "path",
                        "required": true,
                        "description": "Booking ID"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Machine",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/api/bookings/{bookingID}/machines/{machineBookingID}": {
            "delete": {
                "tags": [
                    "bookings"
                ],
                "summary": "Remove machine from booking",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "bookingID",
                        "in": "path",
                        "required": true,
                        "description": "Booking ID"
                    },
                    {
                        "type": "integer",
                        "name": "machineBookingID",
                        "in": "path",
                        "required": true,
                        "description": "Machine booking ID"
                    }
                ]
            }
        },
        "/api/machines/availability": {
            "get": {
                "tags": [
                    "bookings"
                ],
                "summary": "Machines free in a window",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "gymId",
                        "in": "query",
                        "required": true,
                        "description": ""
                    },
                    {
                        "type": "string",
                        "name": "startTime",
                        "in": "query",
                        "required": true,
                        "description": "RFC 3339"
                    },
                    {
                        "type": "string",
                        "name": "endTime",
                        "in": "query",
                        "required": true,
                        "description": "RFC 3339"
                    }
                ]
            }
        },
        "/admin/bookings/{bookingID}/complete": {
            "post": {
                "tags": [
                    "bookings"
                ],
                "summary": "Complete booking",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "bookingID",
                        "in": "path",
                        "required": true,
                        "description": "Booking ID"
                    }
                ]
            }
        },
        "/admin/analytics/bookings": {
            "get": {
                "tags": [
                    "analytics"
                ],
                "summary": "Booking analytics",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "group_by",
                        "in": "query",
                        "required": false,
                        "description": "day or gym"
                    },
                    {
                        "type": "string",
                        "name": "from",
                        "in": "query",
                        "required": false,
                        "description": ""
                    },
                    {
                        "type": "string",
                        "name": "to",
                        "in": "query",
                        "required": false,
                        "description": ""
                    }
                ]
            }
        },
        "/admin/machines/service": {
            "get": {
                "tags": [
                    "maintenance"
                ],
                "summary": "Machines needing service",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "gymId",
                        "in": "query",
                        "required": false,
                        "description": ""
                    }
                ]
            }
        },
        "/admin/machines/{machineID}/service": {
            "post": {
                "tags": [
                    "maintenance"
                ],
                "summary": "Record a service",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "machineID",
                        "in": "path",
                        "required": true,
                        "description": "Machine ID"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Service notes and optional ticket ID",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/admin/machines/{machineID}/service-interval": {
            "put": {
                "tags": [
                    "maintenance"
                ],
                "summary": "Update service interval",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "machineID",
                        "in": "path",
                        "required": true,
                        "description": "Machine ID"
                    },
                    {
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "description": "Interval in hours",
                        "schema": {
                            "type": "object"
                        }
                    }
                ]
            }
        },
        "/admin/machines/stats": {
            "get": {
                "tags": [
                    "maintenance"
                ],
                "summary": "Machine usage stats",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "gymId",
                        "in": "query",
                        "required": false,
                        "description": ""
                    }
                ]
            }
        },
        "/admin/machines/upcoming-service": {
            "get": {
                "tags": [
                    "maintenance"
                ],
                "summary": "Machines approaching service",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "integer",
                        "name": "gymId",
                        "in": "query",
                        "required": true,
                        "description": ""
                    }
                ]
            }
        },
        "/admin/tickets": {
            "get": {
                "tags": [
                    "maintenance"
                ],
                "summary": "Service tickets",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK"
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "$ref": "#/definitions/api.ErrorResponse"
                        }
                    }
                },
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "parameters": [
                    {
                        "type": "string",
                        "name": "status",
                        "in": "query",
                        "required": false,
                        "description": "open or closed"
                    },
                    {
                        "type": "integer",
                        "name": "gymId",
                        "in": "query",
                        "required": false,
                        "description": ""
                    }
                ]
            }
        }
    },
    "definitions": {
        "api.ErrorResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean",
                    "example": false
                },
                "message": {
                    "type": "string",
                    "example": "something went wrong"
                }
            }
        },
        "api.MessageResponse": {
            "type": "object",
            "properties": {
                "success": {
                    "type": "boolean",
                    "example": true
                },
                "message": {
                    "type": "string",
                    "example": "ok"
                }
            }
        },
        "api.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string",
                    "example": "ok"
                },
                "checks": {
                    "type": "object",
                    "additionalProperties": {
                        "type": "string"
                    }
                }
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
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Fittlr API",
	Description:      "Gym booking, availability and machine service API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
