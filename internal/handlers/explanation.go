package handlers

// explanation отдаётся по GET /api-explanation.
var explanation = map[string]any{
	"what_is_an_api": map[string]any{
		"definition": "API (Application Programming Interface) is a way for different software applications to communicate over the internet",
		"analogy":    "Like a restaurant menu and waiter: you order (request), the kitchen prepares (processing), the waiter delivers (response)",
		"key_components": map[string]string{
			"endpoint":    "URL where you send requests (e.g., /api/weather/Tokyo)",
			"http_method": "Type of request: GET fetches, POST creates",
			"headers":     "Metadata like authentication and content type",
			"parameters":  "Query params (?query=AI) or a JSON body",
			"response":    "Data returned from the API, usually JSON",
			"status_code": "200 success, 400 bad request, 502 upstream failure",
		},
	},
	"demonstrated_concepts": map[string]any{
		"simple_get_request": map[string]string{
			"endpoint":    "/api/weather/{city}",
			"explanation": "Fetches data using URL parameters",
			"example":     "GET /api/weather/Tokyo",
		},
		"query_parameters": map[string]string{
			"endpoint":    "/api/news?query=AI&language=en&page_size=5",
			"explanation": "Multiple parameters for filtering and pagination",
			"example":     "GET /api/news?query=AI&page_size=3",
		},
		"authentication": map[string]string{
			"explanation": "API keys are passed as query or path parameters to the upstream services",
			"security":    "Keys live in server configuration and never reach the client",
		},
		"parallel_requests": map[string]string{
			"endpoint":    "/api/research",
			"explanation": "Weather, news and exchange are requested simultaneously and the response waits for all of them",
			"benefit":     "Total latency is that of the slowest call, not the sum of all calls",
		},
		"error_handling": map[string]any{
			"explanation": "A failed or timed out call is reported as {\"error\": reason} under its own key while the others are still returned",
			"http_codes": map[string]string{
				"200-299": "Success",
				"400-499": "Client errors (bad request, unauthorized)",
				"500-599": "Server or upstream errors",
			},
		},
	},
	"real_world_usage": map[string]string{
		"ai_agents": "Agents use APIs to fetch real-time data, perform actions and integrate with external services",
		"this_demo": "Combines weather, news and currency APIs to help with travel planning",
	},
}
