package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "CampusDesk API",
        "description": "Multi-tenant college administration backend",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Registration", "description": "Tenant onboarding"},
        {"name": "Authentication", "description": "Login and identity"},
        {"name": "Admin", "description": "College admin surface"},
        {"name": "Teacher", "description": "Teacher surface"},
        {"name": "Student", "description": "Student surface"}
    ],
    "paths": {
        "/register": {
            "post": {
                "tags": ["Registration"],
                "summary": "Register a college with its admin account",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterCollegeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation failure"},
                    "409": {"description": "College code already exists"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate by email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token issued"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current account",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized"}
                }
            }
        },
        "/admin/dashboard": {
            "get": {
                "tags": ["Admin"],
                "summary": "Tenant-wide counts and recent activity",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/teachers": {
            "get": {
                "tags": ["Admin"],
                "summary": "List teachers",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/staff": {
            "get": {
                "tags": ["Admin"],
                "summary": "List non-teaching staff",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/students": {
            "get": {
                "tags": ["Admin"],
                "summary": "List students",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"},
                    {"name": "class_id", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Enroll a student",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "409": {"description": "Duplicate email or enrollment number"}
                }
            }
        },
        "/admin/classes": {
            "get": {
                "tags": ["Admin"],
                "summary": "List classes",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/admin/announcements": {
            "get": {
                "tags": ["Admin"],
                "summary": "List announcements",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Create or update an announcement",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "201": {"description": "Created"}}
            }
        },
        "/admin/activities": {
            "get": {
                "tags": ["Admin"],
                "summary": "Recent tenant activity",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/teacher/dashboard": {
            "get": {
                "tags": ["Teacher"],
                "summary": "Ownership-scoped counts and today's classes",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/teacher/classes": {
            "get": {
                "tags": ["Teacher"],
                "summary": "List own classes",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Teacher"],
                "summary": "Create or update a class",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK"},
                    "201": {"description": "Created"},
                    "403": {"description": "Not the class teacher"}
                }
            }
        },
        "/teacher/classes/{id}/attendance": {
            "get": {
                "tags": ["Teacher"],
                "summary": "Register for one class and date",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not the class teacher"}}
            }
        },
        "/teacher/attendance": {
            "post": {
                "tags": ["Teacher"],
                "summary": "Atomically replace a day's register",
                "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "Saved"}, "403": {"description": "Not the class teacher"}}
            }
        },
        "/teacher/assignments": {
            "get": {
                "tags": ["Teacher"],
                "summary": "List own assignments",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "tags": ["Teacher"],
                "summary": "Create or update an assignment",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "201": {"description": "Created"}}
            }
        },
        "/student/dashboard": {
            "get": {
                "tags": ["Student"],
                "summary": "Enrollment-scoped figures",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/student/attendance": {
            "get": {
                "tags": ["Student"],
                "summary": "Own attendance history",
                "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}}
            }
        }
    },
    "definitions": {
        "RegisterCollegeRequest": {
            "type": "object",
            "required": ["institution_code", "college_name", "college_email", "principal_name", "principal_email", "password"],
            "properties": {
                "institution_code": {"type": "string"},
                "college_name": {"type": "string"},
                "college_email": {"type": "string"},
                "college_contact": {"type": "string"},
                "principal_name": {"type": "string"},
                "principal_email": {"type": "string"},
                "principal_contact": {"type": "string"},
                "password": {"type": "string"},
                "area": {"type": "string"},
                "city": {"type": "string"},
                "state": {"type": "string"},
                "pincode": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
