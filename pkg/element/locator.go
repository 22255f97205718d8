package element

import "fmt"

// WebDriver locator strategies.
const (
	StrategyCSS             = "css selector"
	StrategyXPath           = "xpath"
	StrategyID              = "id"
	StrategyName            = "name"
	StrategyLinkText        = "link text"
	StrategyPartialLinkText = "partial link text"
	StrategyTagName         = "tag name"
	StrategyClassName       = "class name"
)

// Locator is the selector the driver uses to find one or more elements.
type Locator struct {
	By    string
	Value string
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.By, l.Value)
}

// ByCSS locates elements by CSS selector.
func ByCSS(selector string) Locator { return Locator{By: StrategyCSS, Value: selector} }

// ByXPath locates elements by XPath expression.
func ByXPath(expr string) Locator { return Locator{By: StrategyXPath, Value: expr} }

// ByID locates elements by id attribute.
func ByID(id string) Locator { return Locator{By: StrategyID, Value: id} }

// ByName locates elements by name attribute.
func ByName(name string) Locator { return Locator{By: StrategyName, Value: name} }

// ByLinkText locates anchors by their exact text.
func ByLinkText(text string) Locator { return Locator{By: StrategyLinkText, Value: text} }

// ByPartialLinkText locates anchors whose text contains text.
func ByPartialLinkText(text string) Locator {
	return Locator{By: StrategyPartialLinkText, Value: text}
}

// ByTagName locates elements by tag.
func ByTagName(tag string) Locator { return Locator{By: StrategyTagName, Value: tag} }

// ByClassName locates elements by a single class name.
func ByClassName(class string) Locator { return Locator{By: StrategyClassName, Value: class} }
