package tool

import "github.com/cloudwego/eino/schema"

const (
	ToolSearchProducts           = "search_products"
	ToolGetProductDetails        = "get_product_details"
	ToolCheckProductAvailability = "check_product_availability"
	ToolGetProductsByCategory    = "get_products_by_category"

	ToolCreateOrder          = "create_order"
	ToolGetOrderStatus       = "get_order_status"
	ToolValidateOrderDetails = "validate_order_details"
	ToolCancelOrder          = "cancel_order"
)

// ProductToolInfos declares the tool schemas offered to the product agent.
func ProductToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolSearchProducts,
			Desc: "Search the product catalog by meaning, not just keywords. Use for open-ended questions like 'laptops for gaming' or 'cheap headphones'.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     schema.String,
					Desc:     "What the customer is looking for, in their own words",
					Required: true,
				},
				"category": {
					Type: schema.String,
					Desc: "Optional category to restrict the search to, e.g. 'laptops'",
				},
				"max_results": {
					Type: schema.Integer,
					Desc: "Maximum number of matches to return, between 1 and 20 (default 5)",
				},
				"price_min": {
					Type: schema.Number,
					Desc: "Only return products at or above this price",
				},
				"price_max": {
					Type: schema.Number,
					Desc: "Only return products at or below this price",
				},
			}),
		},
		{
			Name: ToolGetProductDetails,
			Desc: "Look up the full record of a single product by its product ID.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_id": {
					Type:     schema.String,
					Desc:     "The product identifier, e.g. 'PROD-001'",
					Required: true,
				},
			}),
		},
		{
			Name: ToolCheckProductAvailability,
			Desc: "Check whether a product named by the customer is in stock. Returns close alternatives when the exact product is unavailable.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_name": {
					Type:     schema.String,
					Desc:     "The product name as the customer said it",
					Required: true,
				},
			}),
		},
		{
			Name: ToolGetProductsByCategory,
			Desc: "List products in a category, e.g. all laptops.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"category": {
					Type:     schema.String,
					Desc:     "The category to list",
					Required: true,
				},
				"limit": {
					Type: schema.Integer,
					Desc: "Maximum number of products to return (default 10)",
				},
			}),
		},
	}
}

// OrderToolInfos declares the tool schemas offered to the order agent.
func OrderToolInfos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolCreateOrder,
			Desc: "Place an order once the customer has confirmed the product and quantity.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_name": {
					Type:     schema.String,
					Desc:     "The product the customer wants to buy",
					Required: true,
				},
				"quantity": {
					Type: schema.Integer,
					Desc: "How many units to order (default 1)",
				},
				"customer_info": {
					Type: schema.Object,
					Desc: "Optional customer contact details such as email and phone",
					SubParams: map[string]*schema.ParameterInfo{
						"email": {Type: schema.String, Desc: "Customer email address"},
						"phone": {Type: schema.String, Desc: "Customer phone number"},
					},
				},
			}),
		},
		{
			Name: ToolGetOrderStatus,
			Desc: "Look up the current status of an existing order by its order ID.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {
					Type:     schema.String,
					Desc:     "The order identifier, e.g. 'ORD-20250101-AB12CD34'",
					Required: true,
				},
			}),
		},
		{
			Name: ToolValidateOrderDetails,
			Desc: "Check price, availability and total for a prospective order before placing it.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_name": {
					Type:     schema.String,
					Desc:     "The product the customer is considering",
					Required: true,
				},
				"quantity": {
					Type: schema.Integer,
					Desc: "How many units the customer is considering (default 1)",
				},
			}),
		},
		{
			Name: ToolCancelOrder,
			Desc: "Cancel an existing order. Orders that have already shipped cannot be cancelled.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"order_id": {
					Type:     schema.String,
					Desc:     "The order identifier to cancel",
					Required: true,
				},
			}),
		},
	}
}
