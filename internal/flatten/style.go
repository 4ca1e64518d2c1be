package flatten

import (
	"github.com/alexanderramin/ganttkit/internal/color"
	"github.com/alexanderramin/ganttkit/internal/domain"
)

const (
	outageColor = "rgb(190,190,190)"
	breakColor  = "rgb(255,255,255)"
	nameColor   = "rgb(0,0,0)"
)

// kindColors is the background of gantt bars per node kind.
var kindColors = map[domain.EntityType]string{
	domain.EntityCampaign:  "rgba(69,133,136,1)",
	domain.EntityBatch:     "rgba(104,157,106,1)",
	domain.EntityBranch:    "rgba(152,151,26,1)",
	domain.EntitySection:   "rgba(215,153,33,1)",
	domain.EntityProcedure: "rgba(214,93,14,1)",
	domain.EntityOperation: "rgba(177,98,134,1)",
}

func solidStyle(bg, fg string, borderColor string) domain.BarStyle {
	return domain.BarStyle{
		BorderWidth:     1,
		BorderStyle:     "solid",
		BorderColor:     borderColor,
		BorderRadius:    "3px",
		BackgroundColor: bg,
		Color:           fg,
	}
}

func breakStyle() domain.BarStyle {
	return domain.BarStyle{
		BorderWidth:     1,
		BorderStyle:     "solid",
		BorderColor:     color.Transparent,
		BorderRadius:    "0px",
		BackgroundColor: breakColor,
	}
}

func overlayStyle(borderColor, fg string) domain.BarStyle {
	return domain.BarStyle{
		BorderWidth:     2,
		BorderStyle:     "dotted",
		BorderColor:     borderColor,
		BorderRadius:    "3px",
		BackgroundColor: color.Transparent,
		Color:           fg,
	}
}

func outageStyle() domain.BarStyle {
	return domain.BarStyle{
		BorderWidth:     0,
		BorderStyle:     "solid",
		BorderColor:     "gray",
		BorderRadius:    "0px",
		BackgroundColor: outageColor,
	}
}

func operationBorder(conflicted bool) string {
	if conflicted {
		return "red"
	}
	return "black"
}
