package validation

var SignIn = MustCompile("signin", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["email", "password"],
  "properties": {
    "email": { "type": "string", "format": "email" },
    "password": { "type": "string", "minLength": 1 }
  }
}`, map[string]string{
	"email":    "Please enter a valid email address",
	"password": "Password is required",
})

var SignUp = MustCompile("signup", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["firstName", "lastName", "email", "password"],
  "properties": {
    "firstName": { "type": "string", "minLength": 1 },
    "lastName": { "type": "string", "minLength": 1 },
    "email": { "type": "string", "format": "email" },
    "phone": { "type": "string" },
    "password": { "type": "string", "minLength": 6 }
  }
}`, map[string]string{
	"firstName": "First name is required",
	"lastName":  "Last name is required",
	"email":     "Please enter a valid email address",
	"password":  "Password must be at least 6 characters long",
})

var Email = MustCompile("email", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["email"],
  "properties": {
    "email": { "type": "string", "format": "email" }
  }
}`, map[string]string{
	"email": "Please enter a valid email address",
})

var VerifyEmail = MustCompile("verify-email", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["email", "otp"],
  "properties": {
    "email": { "type": "string", "format": "email" },
    "otp": { "type": "string", "pattern": "^[0-9]{4,8}$" }
  }
}`, map[string]string{
	"email": "Please enter a valid email address",
	"otp":   "Please enter the code we sent you",
})

var ResetPassword = MustCompile("reset-password", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["otp", "password"],
  "properties": {
    "otp": { "type": "string", "pattern": "^[0-9]{4,8}$" },
    "password": { "type": "string", "minLength": 6 }
  }
}`, map[string]string{
	"otp":      "Please enter the code we sent you",
	"password": "Password must be at least 6 characters long",
})

var Profile = MustCompile("profile", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["firstName", "lastName"],
  "properties": {
    "firstName": { "type": "string", "minLength": 1 },
    "lastName": { "type": "string", "minLength": 1 },
    "phone": { "type": "string" }
  }
}`, map[string]string{
	"firstName": "First name is required",
	"lastName":  "Last name is required",
})

var PasswordChange = MustCompile("password-change", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["currentPassword", "newPassword"],
  "properties": {
    "currentPassword": { "type": "string", "minLength": 1 },
    "newPassword": { "type": "string", "minLength": 6 }
  }
}`, map[string]string{
	"currentPassword": "Current password is required",
	"newPassword":     "Password must be at least 6 characters long",
})

var Address = MustCompile("address", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["street", "city", "state"],
  "properties": {
    "street": { "type": "string", "minLength": 1 },
    "city": { "type": "string", "minLength": 1 },
    "state": { "type": "string", "minLength": 1 },
    "LGA": { "type": "string" }
  }
}`, map[string]string{
	"street": "Street address is required",
	"city":   "City is required",
	"state":  "State is required",
})

var Order = MustCompile("order", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["productId", "quantity", "orderAddress"],
  "properties": {
    "productId": { "type": "string", "minLength": 1 },
    "quantity": { "type": "integer", "minimum": 10, "maximum": 40, "multipleOf": 10 },
    "orderAddress": { "type": "string", "minLength": 1 }
  }
}`, map[string]string{
	"productId":            "Please select a fuel type",
	"quantity":             "Minimum quantity is 10 liters",
	"quantity:multiple_of": "Quantity must be in steps of 10 liters",
	"quantity:number_lte":  "Maximum quantity is 40 liters",
	"orderAddress":         "Please select a delivery location",
})

var Cancellation = MustCompile("cancellation", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["reason"],
  "properties": {
    "reason": { "type": "string", "minLength": 1 }
  }
}`, map[string]string{
	"reason": "Please provide a reason for cancellation",
})

var Ticket = MustCompile("ticket", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["categoryId", "message"],
  "properties": {
    "categoryId": { "type": "string", "minLength": 1 },
    "message": { "type": "string", "minLength": 10, "maxLength": 1000 }
  }
}`, map[string]string{
	"categoryId":         "Please select a category",
	"message":            "Please provide more details (at least 10 characters)",
	"message:string_lte": "Please keep your message under 1000 characters",
})

var Reply = MustCompile("reply", `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["message"],
  "properties": {
    "message": { "type": "string", "minLength": 1, "maxLength": 1000 }
  }
}`, map[string]string{
	"message":            "Please enter a reply",
	"message:string_lte": "Please keep your reply under 1000 characters",
})
