package handler

import "github.com/aws/aws-lambda-go/events"

// emailClaim extracts the submitter email placed in the request context by a
// Cognito user pool authorizer. Client-supplied fields are never consulted.
func emailClaim(req events.APIGatewayProxyRequest) string {
	claims, ok := req.RequestContext.Authorizer["claims"]
	if !ok {
		return ""
	}

	switch c := claims.(type) {
	case map[string]interface{}:
		email, _ := c["email"].(string)
		return email
	case map[string]string:
		return c["email"]
	default:
		return ""
	}
}
