package domain

// Milestone records an item crossing a total-sales threshold. Displayed on the
// business dashboard until hidden.
type Milestone struct {
	MilestoneID      string `dynamodbav:"MilestoneId"      json:"milestoneId"`
	BusinessID       string `dynamodbav:"BusinessId"       json:"businessId"`
	ItemSKU          string `dynamodbav:"ItemSku"          json:"itemSku"`
	ItemName         string `dynamodbav:"ItemName"         json:"itemName"`
	ImageFilename    string `dynamodbav:"ImageFilename"    json:"imageFilename"`
	TotalSales       int    `dynamodbav:"TotalSales"       json:"totalSales"`
	DateTime         string `dynamodbav:"DateTime"         json:"dateTime"`
	DisplayMilestone bool   `dynamodbav:"DisplayMilestone" json:"displayMilestone"`
}

// HideMilestoneRequest identifies a milestone to stop displaying.
type HideMilestoneRequest struct {
	MilestoneID string `json:"milestoneId" binding:"required"`
}
