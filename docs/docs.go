// Package docs registers the OpenAPI description of the relay monitoring API with swag.
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
        "/readings": {
            "get": {
                "description": "Get DHT11 readings and relay states recorded between two days, newest first",
                "produces": ["application/json"],
                "tags": ["readings"],
                "summary": "List readings",
                "parameters": [
                    {"type": "string", "description": "First day (YYYY-MM-DD), defaults to yesterday", "name": "start_date", "in": "query"},
                    {"type": "string", "description": "Last day (YYYY-MM-DD), defaults to today", "name": "end_date", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ReadingsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        },
        "/thresholds": {
            "get": {
                "description": "Get the most recent temperature/humidity threshold pair",
                "produces": ["application/json"],
                "tags": ["thresholds"],
                "summary": "Get current threshold",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.ThresholdResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            },
            "post": {
                "description": "Overwrite the current temperature/humidity threshold pair",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["thresholds"],
                "summary": "Update threshold",
                "parameters": [
                    {"description": "New thresholds", "name": "threshold", "in": "body", "required": true, "schema": {"$ref": "#/definitions/models.ThresholdUpdate"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.APIError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.APIError"}}
                }
            }
        }
    },
    "definitions": {
        "errors.APIError": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "error"},
                "message": {"type": "string"},
                "error": {"type": "string"},
                "request_id": {"type": "string"}
            }
        },
        "models.Reading": {
            "type": "object",
            "properties": {
                "device_id": {"type": "string"},
                "temperature": {"type": "number"},
                "humidity": {"type": "number"},
                "relay_status": {"type": "string"},
                "timestamp": {"type": "string", "example": "2024-06-01 13:04:05"}
            }
        },
        "models.ReadingsResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "success"},
                "data": {"type": "array", "items": {"$ref": "#/definitions/models.Reading"}}
            }
        },
        "models.ThresholdResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "success"},
                "temp_threshold": {"type": "number"},
                "hum_threshold": {"type": "number"}
            }
        },
        "models.ThresholdUpdate": {
            "type": "object",
            "properties": {
                "temp_threshold": {"type": "number", "example": 30.5},
                "hum_threshold": {"type": "number", "example": 60}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Relay Monitoring API",
	Description:      "Readings and thresholds of the DHT11 relay monitoring system.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
